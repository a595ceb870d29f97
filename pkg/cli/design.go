package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanyardapp/lanyard/pkg/tui"
)

// NewDesignCommand creates the badge designer command
func NewDesignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "design",
		Short: "Open the interactive badge designer",
		Long: `Open the terminal badge designer. Elements are placed on a canvas in
percent coordinates, so one layout fits any badge size at print time.

Keys:
  Tab / Shift+Tab   select next / previous element
  r                 cycle resize handles (Esc returns to move mode)
  arrows            nudge the element, or drag the active handle
  [ / ]             rotate 15 degrees counter-clockwise / clockwise
  a / c / Q         add name text, company text, QR code
  x                 remove the selected element
  q / Ctrl+C        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := tui.NewApp(nil)
			if err != nil {
				return fmt.Errorf("failed to initialize terminal: %w", err)
			}
			return app.Run()
		},
	}
}
