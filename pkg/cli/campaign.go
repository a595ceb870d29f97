package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanyardapp/lanyard/pkg/campaign"
	"github.com/lanyardapp/lanyard/pkg/storage"
)

// NewCampaignCommand creates the campaign management command
func NewCampaignCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage email campaigns",
		Long: `Create, send, and track email campaigns for an event. The audience is
selected with an optional filter expression over participant fields, e.g.
'company == "Acme"' or 'checked_in'. Delivery goes through the configured
mail provider; engagement events (opens and clicks) are ingested with
'campaign track'.`,
	}

	cmd.AddCommand(newCampaignCreateCommand())
	cmd.AddCommand(newCampaignListCommand())
	cmd.AddCommand(newCampaignSendCommand())
	cmd.AddCommand(newCampaignTrackCommand())
	cmd.AddCommand(newCampaignStatsCommand())

	return cmd
}

// findCampaign resolves a campaign by name within an event.
func findCampaign(store *storage.Store, slug, name string) (*campaign.Campaign, error) {
	ev, err := store.Events().LoadBySlug(slug)
	if err != nil {
		return nil, err
	}
	campaigns, err := store.Campaigns().ListByEvent(ev.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range campaigns {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("campaign not found: %s", name)
}

// consoleSender writes each delivery to the command output. It stands in for
// the hosted mail provider during local runs and dry sends.
type consoleSender struct {
	out io.Writer
}

func (s *consoleSender) Send(c *campaign.Campaign, r *campaign.Recipient) error {
	_, err := fmt.Fprintf(s.out, "  -> %s: %s\n", r.Email, c.Subject)
	return err
}

func newCampaignCreateCommand() *cobra.Command {
	var (
		subject string
		filter  string
	)

	cmd := &cobra.Command{
		Use:   "create <event-slug> <name>",
		Short: "Create a campaign",
		Long: `Create a draft campaign. The filter is validated immediately; a bad
expression fails here, not at send time.

Examples:
  lanyard campaign create spring-gala reminder --subject "Doors open at 9"
  lanyard campaign create spring-gala vip-dinner --subject "Dinner invite" \
    --filter 'company == "Acme"'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return fmt.Errorf("campaign subject is required (use --subject)")
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

			if existing, _ := findCampaign(store, args[0], args[1]); existing != nil {
				return fmt.Errorf("campaign already exists: %s", args[1])
			}

			c, err := campaign.New(ev.ID, args[1], subject, filter)
			if err != nil {
				return err
			}
			if err := store.Campaigns().SaveCampaign(c); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Campaign '%s' created\n", c.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Email subject (required)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Audience filter expression")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func newCampaignListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <event-slug>",
		Short: "List an event's campaigns",
		Args:  cobra.ExactArgs(1),
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
			campaigns, err := store.Campaigns().ListByEvent(ev.ID)
			if err != nil {
				return err
			}

			if len(campaigns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No campaigns.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSUBJECT\tSTATUS\tFILTER")
			for _, c := range campaigns {
				filter := c.Filter
				if filter == "" {
					filter = "(everyone)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Subject, c.Status, filter)
			}
			return w.Flush()
		},
	}
}

func newCampaignSendCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "send <event-slug> <name>",
		Short: "Send a campaign to its audience",
		Long: `Send a campaign to every participant matching its filter. With
--dry-run the audience is listed and nothing is sent or recorded.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			c, err := findCampaign(store, args[0], args[1])
			if err != nil {
				return err
			}

			participants, err := store.Participants().ListByEvent(c.EventID)
			if err != nil {
				return err
			}

			if dryRun {
				audience, err := c.Audience(participants)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Would send '%s' to %d participants:\n", c.Subject, len(audience))
				for _, p := range audience {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s <%s>\n", p.Name, p.Email)
				}
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sending '%s':\n", c.Subject)
			recipients, err := c.Send(&consoleSender{out: cmd.OutOrStdout()}, participants)
			if err != nil {
				return err
			}

			if err := store.Campaigns().SaveCampaign(c); err != nil {
				return err
			}
			if err := store.Campaigns().SaveRecipients(recipients); err != nil {
				return err
			}

			stats := campaign.Aggregate(recipients)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Sent to %d recipients (%d bounced)\n", stats.Sent, stats.Bounced)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the audience without sending")

	return cmd
}

func newCampaignTrackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "track <event-slug> <name> <email> <open|click>",
		Short: "Record an engagement event",
		Long: `Ingest an engagement event from the mail provider webhook export:
an open or a click for one recipient. Repeat events are idempotent.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			c, err := findCampaign(store, args[0], args[1])
			if err != nil {
				return err
			}

			recipients, err := store.Campaigns().ListRecipients(c.ID)
			if err != nil {
				return err
			}

			var rec *campaign.Recipient
			for _, r := range recipients {
				if r.Email == args[2] {
					rec = r
					break
				}
			}
			if rec == nil {
				return fmt.Errorf("%w: %s", campaign.ErrRecipientNotFound, args[2])
			}

			now := time.Now()
			switch args[3] {
			case "open":
				err = rec.RecordOpen(now)
			case "click":
				err = rec.RecordClick(now)
			default:
				return fmt.Errorf("unknown engagement event: %s (want open or click)", args[3])
			}
			if err != nil {
				return err
			}

			if err := store.Campaigns().SaveRecipients([]*campaign.Recipient{rec}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %s for %s\n", args[3], args[2])
			return nil
		},
	}
}

func newCampaignStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <event-slug> <name>",
		Short: "Show campaign engagement statistics",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			c, err := findCampaign(store, args[0], args[1])
			if err != nil {
				return err
			}

			recipients, err := store.Campaigns().ListRecipients(c.ID)
			if err != nil {
				return err
			}

			stats := campaign.Aggregate(recipients)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s - %s\n", c.Name, c.Subject)
			fmt.Fprintf(out, "  Recipients: %d\n", stats.Total)
			fmt.Fprintf(out, "  Sent:       %d\n", stats.Sent)
			fmt.Fprintf(out, "  Opened:     %d\n", stats.Opened)
			fmt.Fprintf(out, "  Clicked:    %d\n", stats.Clicked)
			fmt.Fprintf(out, "  Bounced:    %d\n", stats.Bounced)
			return nil
		},
	}
}
