package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lanyardapp/lanyard/pkg/event"
	"github.com/lanyardapp/lanyard/pkg/storage"
	"github.com/lanyardapp/lanyard/pkg/validation"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "import <event-file>",
		Short: "Import an event definition from a YAML file",
		Long: `Import an event definition from a YAML file and validate it.

This command:
- Validates the file path (relative paths must stay under the working directory)
- Parses and validates the event definition
- Saves the event to the database and the definitions directory

Examples:
  lanyard import ./gophercon-2026.yaml
  lanyard import shared-event.yaml --slug my-copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveInputPath(args[0])
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read event file: %w", err)
			}

			ev, err := event.Parse(data)
			if err != nil {
				return fmt.Errorf("invalid event definition: %w", err)
			}
			if slug != "" {
				ev.Slug = slug
				if err := ev.Validate(); err != nil {
					return err
				}
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if existing, err := store.Events().LoadBySlug(ev.Slug); err == nil && existing != nil {
				return fmt.Errorf("event already exists: %s\nUse --slug to import under a different slug", ev.Slug)
			}

			if err := store.Events().Save(ev); err != nil {
				return err
			}

			defRepo, err := storage.NewFilesystemEventRepositoryWithPath(GetConfigDir())
			if err != nil {
				return err
			}
			if err := defRepo.Save(ev); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Event '%s' imported (%s)\n", ev.Slug, ev.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "Import under a different slug")

	return cmd
}

// resolveInputPath validates a user-provided file path. Absolute paths are
// taken as-is; relative paths are checked against the working directory so
// they cannot traverse out of it.
func resolveInputPath(userPath string) (string, error) {
	if filepath.IsAbs(userPath) {
		if _, err := os.Stat(userPath); err != nil {
			return "", fmt.Errorf("file not found: %s", userPath)
		}
		return userPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	path, err := validation.ValidateSecurePath(cwd, userPath)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found: %s", userPath)
	}
	return path, nil
}
