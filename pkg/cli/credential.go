package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lanyardapp/lanyard/pkg/storage"
)

const maxCredentialSize = 1 << 20 // 1MB limit for all credential inputs

// NewCredentialCommand creates the credential management command
func NewCredentialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage mail provider credentials",
		Long: `Manage mail provider API credentials securely in the system keyring.
Credentials are stored in your system's native credential store (Keychain on
macOS, Credential Manager on Windows, Secret Service on Linux) and never in
plain text files.`,
	}

	cmd.AddCommand(newCredentialSetCommand())
	cmd.AddCommand(newCredentialDeleteCommand())
	cmd.AddCommand(newCredentialListCommand())

	return cmd
}

func newCredentialSetCommand() *cobra.Command {
	var (
		key      string
		value    string
		useStdin bool
	)

	cmd := &cobra.Command{
		Use:   "set <provider>",
		Short: "Store a credential for a mail provider",
		Long: `Store a credential for a mail provider under provider:key.

Examples:
  # Interactive password prompt (recommended for local use)
  lanyard credential set sendgrid --key api-key

  # From stdin (recommended for automation)
  printf '%s' "$API_KEY" | lanyard credential set sendgrid --key api-key --stdin

  # Value in the command (NOT recommended - visible in shell history)
  lanyard credential set mailgun --key api-key --value secret123

Security:
  - Credentials live in the system keyring, never in plain text
  - All input methods enforce a 1MB size limit
  - Credential values are never displayed by lanyard commands`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]
			if key == "" {
				return fmt.Errorf("credential key is required (use --key flag)")
			}

			credStore := storage.NewKeyringCredentialStore()
			credentialKey := fmt.Sprintf("%s:%s", provider, key)

			// Confirm overwrite of an existing credential.
			if _, err := credStore.Get(credentialKey); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: Credential '%s' for provider '%s' already exists.\n", key, provider)
				fmt.Fprint(cmd.OutOrStdout(), "Overwrite? [y/N]: ")

				var response string
				_, _ = fmt.Fscanln(os.Stdin, &response)
				response = strings.ToLower(strings.TrimSpace(response))
				if response != "y" && response != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			var credValue string
			switch {
			case useStdin:
				limitedReader := io.LimitReader(cmd.InOrStdin(), maxCredentialSize+1)
				inputBytes, err := io.ReadAll(limitedReader)

				// Zero the buffer on all exit paths.
				defer func() {
					for i := range inputBytes {
						inputBytes[i] = 0
					}
				}()

				if err != nil {
					return fmt.Errorf("failed to read from stdin: %w", err)
				}
				if len(inputBytes) > maxCredentialSize {
					return fmt.Errorf("credential value exceeds maximum size of %d bytes", maxCredentialSize)
				}

				trimmed := bytes.TrimRight(inputBytes, "\r\n")
				if len(bytes.TrimSpace(trimmed)) == 0 {
					return fmt.Errorf("credential value cannot be empty")
				}
				credValue = string(trimmed)

			case value != "":
				fmt.Fprintln(cmd.OutOrStderr(), "Warning: Using --value flag exposes the credential in shell history.")
				if len(value) > maxCredentialSize {
					return fmt.Errorf("credential value exceeds maximum size of %d bytes", maxCredentialSize)
				}
				if strings.TrimSpace(value) == "" {
					return fmt.Errorf("credential value cannot be empty")
				}
				credValue = value

			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Enter value for '%s': ", key)
				passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())

				defer func() {
					for i := range passwordBytes {
						passwordBytes[i] = 0
					}
				}()

				if err != nil {
					return fmt.Errorf("failed to read credential value: %w", err)
				}
				if len(passwordBytes) > maxCredentialSize {
					return fmt.Errorf("credential value exceeds maximum size of %d bytes", maxCredentialSize)
				}
				if len(bytes.TrimSpace(passwordBytes)) == 0 {
					return fmt.Errorf("credential value cannot be empty")
				}
				credValue = string(passwordBytes)
			}

			if err := credStore.Set(credentialKey, credValue); err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Credential '%s' stored for provider '%s'\n", key, provider)
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Credential key name (required, e.g. 'api-key')")
	cmd.Flags().StringVarP(&value, "value", "v", "", "Credential value (will prompt securely if omitted)")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "Read the credential value from stdin")

	_ = cmd.MarkFlagRequired("key")
	cmd.MarkFlagsMutuallyExclusive("stdin", "value")

	return cmd
}

func newCredentialDeleteCommand() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "delete <provider>",
		Short: "Delete a provider credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return fmt.Errorf("credential key is required (use --key flag)")
			}

			credStore := storage.NewKeyringCredentialStore()
			credentialKey := fmt.Sprintf("%s:%s", args[0], key)

			if err := credStore.Delete(credentialKey); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Credential '%s' deleted for provider '%s'\n", key, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Credential key name (required)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newCredentialListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [provider]",
		Short: "List configured credentials",
		Long: `List configured credentials, optionally for one provider. Shows only
credential key names, never the actual values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filterProvider string
			if len(args) > 0 {
				filterProvider = args[0]
			}

			credStore := storage.NewKeyringCredentialStore()
			keys, err := credStore.List()
			if err != nil {
				return fmt.Errorf("failed to list credentials: %w", err)
			}

			type credentialEntry struct {
				provider string
				keyName  string
			}

			entries := make([]credentialEntry, 0, len(keys))
			for _, fullKey := range keys {
				parts := strings.SplitN(fullKey, ":", 2)
				if len(parts) != 2 {
					continue
				}
				if filterProvider != "" && parts[0] != filterProvider {
					continue
				}
				entries = append(entries, credentialEntry{provider: parts[0], keyName: parts[1]})
			}

			if len(entries) == 0 {
				if filterProvider != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "No credentials configured for provider '%s'.\n", filterProvider)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "No credentials configured.")
					fmt.Fprintln(cmd.OutOrStdout(), "\nAdd one with: lanyard credential set <provider> --key <name>")
				}
				return nil
			}

			sort.Slice(entries, func(i, j int) bool {
				if entries[i].provider != entries[j].provider {
					return entries[i].provider < entries[j].provider
				}
				return entries[i].keyName < entries[j].keyName
			})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tCREDENTIAL KEY\tSTATUS")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t(set)\n", entry.provider, entry.keyName)
			}
			return w.Flush()
		},
	}
}
