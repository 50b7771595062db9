package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crewdir/crewdir/modules/bulkimport/importer"
)

func newTemplateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the XLSX import template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(output) == "" {
				return withCode(exitUsage, fmt.Errorf("--output is required"))
			}
			payload, err := importer.BuildTemplateXLSX()
			if err != nil {
				return fmt.Errorf("build template: %w", err)
			}
			if err := os.WriteFile(output, payload, 0o644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			return writeJSONLine(map[string]any{"written": output, "bytes": len(payload)})
		},
	}

	cmd.Flags().StringVar(&output, "output", "agencies-template.xlsx", "Output path for the template")
	return cmd
}
