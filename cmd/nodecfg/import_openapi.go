package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-nodeconfig/pkg/catalog"
	"github.com/goliatone/go-nodeconfig/pkg/catalog/openapi"
)

type catalogDocument struct {
	Kinds []catalog.NodeKind `yaml:"kinds"`
}

func newImportOpenAPICmd(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "import-openapi <document>",
		Short: "Convert OpenAPI component schemas into a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			kinds, err := openapi.Import(cmd.Context(), raw)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(catalogDocument{Kinds: kinds})
			if err != nil {
				return fmt.Errorf("encode catalog: %w", err)
			}
			a.log.Infow("imported node kinds", "source", args[0], "kinds", len(kinds))

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output file (stdout if empty)")
	return cmd
}
