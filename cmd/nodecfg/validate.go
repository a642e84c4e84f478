package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-nodeconfig/pkg/report"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		target     schemaFlags
		valuesPath string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration values for a node kind",
		Long:  `Validates a values file against a node kind and prints the field errors. Exits with status 1 when any visible field is invalid.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			kind, compiled, err := target.resolve(a.registry)
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			result := compiled.Validate(values)
			a.log.Debugw("validated", "kind", kind, "errors", len(result))

			out := cmd.OutOrStdout()
			if format == "json" {
				err = report.JSON(out, result)
			} else {
				err = report.Text(out, kind, result)
			}
			if err != nil {
				return err
			}
			if !result.Valid() {
				return errInvalidValues
			}
			return nil
		},
	}
	target.bind(cmd)
	cmd.Flags().StringVarP(&valuesPath, "values", "f", "", `JSON or YAML values file ("-" for stdin)`)
	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text or json")
	return cmd
}

func newVisibleCmd(a *app) *cobra.Command {
	var (
		target     schemaFlags
		valuesPath string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "visible",
		Short: "List the fields shown for the given values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			_, compiled, err := target.resolve(a.registry)
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			visible := compiled.Visible(values)
			keys := make([]string, 0, len(visible))
			for _, def := range visible {
				keys = append(keys, def.Key)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return json.NewEncoder(out).Encode(map[string][]string{"fields": keys})
			}
			for _, def := range visible {
				fmt.Fprintf(out, "%s\t%s\n", def.Key, def.DisplayLabel())
			}
			return nil
		},
	}
	target.bind(cmd)
	cmd.Flags().StringVarP(&valuesPath, "values", "f", "", `JSON or YAML values file ("-" for stdin)`)
	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text or json")
	return cmd
}
