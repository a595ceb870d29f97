package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lanyardapp/lanyard/pkg/registration"
)

// NewRegisterCommand creates the register command
func NewRegisterCommand() *cobra.Command {
	var (
		file       string
		useStdin   bool
		schemaFile string
	)

	cmd := &cobra.Command{
		Use:   "register <event-slug>",
		Short: "Register a participant from a JSON submission",
		Long: `Register a participant for an open event from a raw JSON form
submission. Fields are extracted according to the event's form definition;
an optional JSON schema is enforced first.

Examples:
  lanyard register gophercon-2026 --file submission.json
  curl -s https://forms.example/latest | lanyard register gophercon-2026 --stdin
  lanyard register gophercon-2026 --file s.json --schema registration-schema.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			switch {
			case useStdin:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read from stdin: %w", err)
				}
				payload = data
			case file != "":
				path, err := resolveInputPath(file)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read submission file: %w", err)
				}
				payload = data
			default:
				return fmt.Errorf("provide the submission with --file or --stdin")
			}

			intake := registration.NewIntake()
			if schemaFile != "" {
				path, err := resolveInputPath(schemaFile)
				if err != nil {
					return err
				}
				schema, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read schema file: %w", err)
				}
				if err := intake.SetSchema(schema); err != nil {
					return err
				}
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ev, err := store.Events().LoadBySlug(args[0])
			if err != nil {
				return err
			}

			svc := registration.NewService(store.Participants(), intake)
			p, err := svc.Register(ev, payload)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered %s <%s>\n", p.Name, p.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "  Check-in code: %s\n", p.CheckinCode)
			fmt.Fprintf(cmd.OutOrStdout(), "  Badge QR:      %s\n", p.QRPayload(ev.Slug))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Submission JSON file")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "Read the submission from stdin")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "JSON schema the submission must satisfy")
	cmd.MarkFlagsMutuallyExclusive("file", "stdin")

	return cmd
}

// NewCheckinCommand creates the check-in command
func NewCheckinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <code>",
		Short: "Check a participant in by badge code",
		Long: `Check a participant in at the door. Accepts either the bare check-in
code or the full badge QR payload (lanyard://checkin/<event>/<code>).
Scanning the same badge twice is reported, not rejected; the first check-in
time stands.

Examples:
  lanyard checkin 3f2a9c1e-...
  lanyard checkin "lanyard://checkin/gophercon-2026/3f2a9c1e-..."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			// Accept the full QR payload and take its last segment.
			if strings.HasPrefix(code, "lanyard://") {
				parts := strings.Split(strings.TrimSuffix(code, "/"), "/")
				code = parts[len(parts)-1]
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := registration.NewService(store.Participants(), registration.NewIntake())
			res, err := svc.CheckInByCode(code)
			if err != nil {
				return err
			}

			if res.AlreadyCheckedIn {
				fmt.Fprintf(cmd.OutOrStdout(), "Already checked in: %s (at %s)\n",
					res.Participant.Name, res.Participant.CheckedInAt.Format("15:04:05"))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Checked in: %s", res.Participant.Name)
			if res.Participant.Company != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s)", res.Participant.Company)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
