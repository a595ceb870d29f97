package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lanyardapp/lanyard/pkg/event"
	"github.com/lanyardapp/lanyard/pkg/validation"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export <slug>",
		Short: "Export an event definition for sharing",
		Long: `Export an event definition to YAML. The export carries the slug, form
definition, and schedule; participant data never leaves the database.

Examples:
  # Export to stdout
  lanyard export gophercon-2026

  # Export to a file
  lanyard export gophercon-2026 --output gophercon.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ev, err := store.Events().LoadBySlug(args[0])
			if err != nil {
				return err
			}

			data, err := event.Export(ev)
			if err != nil {
				return fmt.Errorf("failed to export event: %w", err)
			}

			if outputPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			}

			path := outputPath
			if !filepath.IsAbs(path) {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				path, err = validation.ValidateSecurePath(cwd, outputPath)
				if err != nil {
					return err
				}
			}

			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Event exported to: %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")

	return cmd
}
