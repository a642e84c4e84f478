package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-nodeconfig/pkg/catalog"
)

func newKindsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "kinds [kind]",
		Short: "List the node kinds in the catalog, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				kind, ok := a.registry.Get(args[0])
				if !ok {
					return fmt.Errorf("%w: %q", catalog.ErrUnknownKind, args[0])
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(kind)
			}

			kinds := a.registry.All()
			if format == "json" {
				summaries := make([]catalog.Summary, 0, len(kinds))
				for _, kind := range kinds {
					summaries = append(summaries, kind.Summary())
				}
				return json.NewEncoder(out).Encode(summaries)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tCATEGORY\tLABEL")
			for _, kind := range kinds {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", kind.Kind, kind.Category, kind.Label)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text or json")
	return cmd
}
