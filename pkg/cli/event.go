package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanyardapp/lanyard/pkg/event"
)

// NewEventCommand creates the event management command
func NewEventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage events",
		Long: `Create and manage events. Every other command operates on an event
identified by its slug.`,
	}

	cmd.AddCommand(newEventCreateCommand())
	cmd.AddCommand(newEventListCommand())
	cmd.AddCommand(newEventShowCommand())
	cmd.AddCommand(newEventOpenCommand())
	cmd.AddCommand(newEventCloseCommand())

	return cmd
}

func newEventCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		venue       string
		starts      string
		ends        string
	)

	cmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a new event",
		Long: `Create a new draft event. The slug identifies the event everywhere:
in commands, in badge QR payloads, and in definition files.

Examples:
  lanyard event create gophercon-2026 --name "GopherCon 2026"
  lanyard event create spring-gala --name "Spring Gala" --venue "Town Hall" \
    --starts 2026-09-14T18:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			if name == "" {
				name = slug
			}

			ev, err := event.New(slug, name)
			if err != nil {
				return err
			}
			ev.Description = description
			ev.Venue = venue

			if starts != "" {
				t, err := time.Parse(time.RFC3339, starts)
				if err != nil {
					return fmt.Errorf("invalid --starts time (want RFC3339): %w", err)
				}
				ev.StartsAt = t
			}
			if ends != "" {
				t, err := time.Parse(time.RFC3339, ends)
				if err != nil {
					return fmt.Errorf("invalid --ends time (want RFC3339): %w", err)
				}
				ev.EndsAt = t
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if existing, err := store.Events().LoadBySlug(slug); err == nil && existing != nil {
				return fmt.Errorf("event already exists: %s", slug)
			}

			if err := store.Events().Save(ev); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Event '%s' created (draft)\n", slug)
			fmt.Fprintf(cmd.OutOrStdout(), "  Open registration with: lanyard event open %s\n", slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Event display name (default: the slug)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Event description")
	cmd.Flags().StringVar(&venue, "venue", "", "Venue name")
	cmd.Flags().StringVar(&starts, "starts", "", "Start time (RFC3339)")
	cmd.Flags().StringVar(&ends, "ends", "", "End time (RFC3339)")

	return cmd
}

func newEventListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			events, err := store.Events().List()
			if err != nil {
				return err
			}

			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events.")
				fmt.Fprintln(cmd.OutOrStdout(), "\nCreate one with: lanyard event create <slug> --name <name>")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tSTATUS\tSTARTS")
			for _, ev := range events {
				starts := "-"
				if !ev.StartsAt.IsZero() {
					starts = ev.StartsAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ev.Slug, ev.Name, ev.Status, starts)
			}
			return w.Flush()
		},
	}
}

func newEventShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show event details",
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

			participants, err := store.Participants().ListByEvent(ev.ID)
			if err != nil {
				return err
			}
			checkedIn := 0
			for _, p := range participants {
				if p.IsCheckedIn() {
					checkedIn++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", ev.Name, ev.Slug)
			fmt.Fprintf(out, "  Status:       %s\n", ev.Status)
			if ev.Venue != "" {
				fmt.Fprintf(out, "  Venue:        %s\n", ev.Venue)
			}
			if !ev.StartsAt.IsZero() {
				fmt.Fprintf(out, "  Starts:       %s\n", ev.StartsAt.Format(time.RFC3339))
			}
			if !ev.EndsAt.IsZero() {
				fmt.Fprintf(out, "  Ends:         %s\n", ev.EndsAt.Format(time.RFC3339))
			}
			fmt.Fprintf(out, "  Participants: %d (%d checked in)\n", len(participants), checkedIn)
			fmt.Fprintf(out, "  Form fields:\n")
			for _, f := range ev.Form {
				required := ""
				if f.Required {
					required = " (required)"
				}
				path := f.Name
				if f.Path != "" {
					path = f.Path
				}
				fmt.Fprintf(out, "    %s <- %s%s\n", f.Name, path, required)
			}
			return nil
		},
	}
}

func newEventOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <slug>",
		Short: "Open an event for registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transitionEvent(cmd, args[0], func(ev *event.Event) error { return ev.Open() }, "open for registration")
		},
	}
}

func newEventCloseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close <slug>",
		Short: "Close an event's registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transitionEvent(cmd, args[0], func(ev *event.Event) error { return ev.Close() }, "closed")
		},
	}
}

func transitionEvent(cmd *cobra.Command, slug string, transition func(*event.Event) error, verb string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ev, err := store.Events().LoadBySlug(slug)
	if err != nil {
		return err
	}
	if err := transition(ev); err != nil {
		return err
	}
	if err := store.Events().Save(ev); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Event '%s' is now %s\n", slug, verb)
	return nil
}
