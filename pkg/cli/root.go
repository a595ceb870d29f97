// Package cli implements the lanyard command line interface.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lanyardapp/lanyard/pkg/storage"
)

const (
	// Version is the current version of Lanyard
	Version = "1.0.0"
)

// Config holds the global configuration for the Lanyard CLI
type Config struct {
	ConfigDir string
	Debug     bool
}

// GlobalConfig is the shared configuration instance
var GlobalConfig = &Config{}

// NewRootCommand creates the root cobra command for Lanyard
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lanyard",
		Short: "Lanyard - Event registration, badges, and check-in",
		Long: `Lanyard manages small-event logistics from the terminal: event setup,
attendee registration, badge layout design, door check-in, table seating,
and email campaign tracking.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			if GlobalConfig.Debug {
				log.SetOutput(os.Stderr)
				log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
			} else {
				log.SetOutput(io.Discard)
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&GlobalConfig.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&GlobalConfig.ConfigDir, "config-dir", "", "Configuration directory (default: ~/.lanyard)")

	cmd.AddCommand(NewEventCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewRegisterCommand())
	cmd.AddCommand(NewCheckinCommand())
	cmd.AddCommand(NewSeatingCommand())
	cmd.AddCommand(NewCampaignCommand())
	cmd.AddCommand(NewCredentialCommand())
	cmd.AddCommand(NewDesignCommand())

	return cmd
}

// initConfig initializes the Lanyard configuration directory and files
func initConfig() error {
	// Environment variable always takes priority (for testing)
	if envDir := os.Getenv("LANYARD_CONFIG_DIR"); envDir != "" {
		GlobalConfig.ConfigDir = envDir
	} else if GlobalConfig.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		GlobalConfig.ConfigDir = filepath.Join(homeDir, ".lanyard")
	}

	if err := os.MkdirAll(GlobalConfig.ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(GlobalConfig.ConfigDir, "events"), 0755); err != nil {
		return fmt.Errorf("failed to create events directory: %w", err)
	}

	// Load or create config file
	configFile := filepath.Join(GlobalConfig.ConfigDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		defaultConfig := map[string]interface{}{
			"version": "1.0",
		}
		data, err := yaml.Marshal(defaultConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err := os.WriteFile(configFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
	}

	return nil
}

// GetConfigDir returns the configuration directory path.
// Priority order: 1) LANYARD_CONFIG_DIR env var (for testing), 2)
// GlobalConfig.ConfigDir, 3) ~/.lanyard
func GetConfigDir() string {
	if envDir := os.Getenv("LANYARD_CONFIG_DIR"); envDir != "" {
		return envDir
	}
	if GlobalConfig.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory if home dir cannot be determined
			return ".lanyard"
		}
		return filepath.Join(homeDir, ".lanyard")
	}
	return GlobalConfig.ConfigDir
}

// GetEventsDir returns the event definitions directory path
func GetEventsDir() string {
	return filepath.Join(GetConfigDir(), "events")
}

// GetDatabasePath returns the path to the SQLite database
func GetDatabasePath() string {
	return filepath.Join(GetConfigDir(), "lanyard.db")
}

// openStore opens the SQLite store in the configured location. Callers must
// Close it.
func openStore() (*storage.Store, error) {
	store, err := storage.NewStoreWithPath(GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
