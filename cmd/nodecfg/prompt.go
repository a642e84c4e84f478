package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-nodeconfig/pkg/prompt"
)

func newPromptCmd(a *app) *cobra.Command {
	var (
		target     schemaFlags
		valuesPath string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in a node configuration interactively",
		Long:  `Asks for every visible field of a node kind in order. Answers are checked as they are typed and fields appear or disappear as earlier answers change visibility.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, compiled, err := target.resolve(a.registry)
			if err != nil {
				return err
			}
			initial, err := readValues(valuesPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			title := kind
			if k, ok := a.registry.Get(kind); ok && k.Label != "" {
				title = k.Label
			}
			collector, err := prompt.NewCollector(compiled, prompt.NewTerminalDriver(), prompt.WithTitle(title))
			if err != nil {
				return err
			}
			values, result, err := collector.Collect(cmd.Context(), initial)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(values, "", "  ")
			if err != nil {
				return fmt.Errorf("encode values: %w", err)
			}
			data = append(data, '\n')
			if outPath != "" {
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("write values: %w", err)
				}
			} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}

			if !result.Valid() {
				a.log.Warnw("collected values are invalid", "kind", kind, "errors", result)
				return errInvalidValues
			}
			return nil
		},
	}
	target.bind(cmd)
	cmd.Flags().StringVarP(&valuesPath, "values", "f", "", "JSON or YAML file with starting values")
	cmd.Flags().StringVar(&outPath, "out", "", "write the collected values to this file instead of stdout")
	return cmd
}
