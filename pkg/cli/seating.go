package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lanyardapp/lanyard/pkg/registration"
	"github.com/lanyardapp/lanyard/pkg/seating"
	"github.com/lanyardapp/lanyard/pkg/storage"
)

// NewSeatingCommand creates the seating management command
func NewSeatingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seating",
		Short: "Manage table seating",
		Long: `Manage an event's seating chart: tables with numbered seats, manual
assignment, and rule-driven auto-assignment. Table rules are boolean
expressions over participant fields, e.g. 'company == "Acme"' or
'dietary == "vegetarian"'.`,
	}

	cmd.AddCommand(newSeatingAddTableCommand())
	cmd.AddCommand(newSeatingAssignCommand())
	cmd.AddCommand(newSeatingUnassignCommand())
	cmd.AddCommand(newSeatingMoveCommand())
	cmd.AddCommand(newSeatingSwapCommand())
	cmd.AddCommand(newSeatingAutoCommand())
	cmd.AddCommand(newSeatingChartCommand())

	return cmd
}

// seatingContext loads everything seating commands need and saves the chart
// back when the action succeeds.
func withSeating(slug string, action func(store *storage.Store, chart *seating.Chart) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ev, err := store.Events().LoadBySlug(slug)
	if err != nil {
		return err
	}

	chart, err := store.Seating().LoadChart(ev.ID)
	if err != nil {
		return err
	}

	if err := action(store, chart); err != nil {
		return err
	}

	return store.Seating().SaveChart(chart)
}

// findTable resolves a table by name within a chart.
func findTable(chart *seating.Chart, name string) (*seating.Table, error) {
	for _, t := range chart.Tables() {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("table not found: %s", name)
}

// findParticipant resolves a participant by email within the chart's event.
func findParticipant(store *storage.Store, chart *seating.Chart, email string) (*registration.Participant, error) {
	participants, err := store.Participants().ListByEvent(chart.EventID())
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, fmt.Errorf("participant not found: %s", email)
}

func parseSeat(s string) (int, error) {
	seat, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid seat number: %s", s)
	}
	return seat, nil
}

func newSeatingAddTableCommand() *cobra.Command {
	var (
		capacity int
		rule     string
	)

	cmd := &cobra.Command{
		Use:   "add-table <event-slug> <table-name>",
		Short: "Add a table to the seating chart",
		Long: `Add a table with numbered seats 1..capacity. An optional rule
restricts who can be seated there.

Examples:
  lanyard seating add-table spring-gala "Table 1" --capacity 8
  lanyard seating add-table spring-gala VIP --capacity 6 --rule 'company == "Acme"'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeating(args[0], func(store *storage.Store, chart *seating.Chart) error {
				t, err := chart.AddTable(args[1], capacity, rule)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Table '%s' added (%d seats)\n", t.Name, t.Capacity)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&capacity, "capacity", "c", 8, "Number of seats")
	cmd.Flags().StringVarP(&rule, "rule", "r", "", "Eligibility rule expression")

	return cmd
}

func newSeatingAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <event-slug> <email> <table-name> <seat>",
		Short: "Seat a participant",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeating(args[0], func(store *storage.Store, chart *seating.Chart) error {
				p, err := findParticipant(store, chart, args[1])
				if err != nil {
					return err
				}
				t, err := findTable(chart, args[2])
				if err != nil {
					return err
				}
				seat, err := parseSeat(args[3])
				if err != nil {
					return err
				}
				if err := chart.Assign(p, t.ID, seat); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s seated at %s, seat %d\n", p.Name, t.Name, seat)
				return nil
			})
		},
	}
}

func newSeatingUnassignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <event-slug> <email>",
		Short: "Free a participant's seat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeating(args[0], func(store *storage.Store, chart *seating.Chart) error {
				p, err := findParticipant(store, chart, args[1])
				if err != nil {
					return err
				}
				if err := chart.Unassign(p.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s unseated\n", p.Name)
				return nil
			})
		},
	}
}

func newSeatingMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <event-slug> <email> <table-name> <seat>",
		Short: "Move a seated participant to another seat",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeating(args[0], func(store *storage.Store, chart *seating.Chart) error {
				p, err := findParticipant(store, chart, args[1])
				if err != nil {
					return err
				}
				t, err := findTable(chart, args[2])
				if err != nil {
					return err
				}
				seat, err := parseSeat(args[3])
				if err != nil {
					return err
				}
				if err := chart.Move(p, t.ID, seat); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s moved to %s, seat %d\n", p.Name, t.Name, seat)
				return nil
			})
		},
	}
}

func newSeatingSwapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "swap <event-slug> <email-a> <email-b>",
		Short: "Swap the seats of two participants",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeating(args[0], func(store *storage.Store, chart *seating.Chart) error {
				a, err := findParticipant(store, chart, args[1])
				if err != nil {
					return err
				}
				b, err := findParticipant(store, chart, args[2])
				if err != nil {
					return err
				}
				if err := chart.Swap(a, b); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Swapped %s and %s\n", a.Name, b.Name)
				return nil
			})
		},
	}
}

func newSeatingAutoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auto <event-slug>",
		Short: "Auto-assign unseated participants",
		Long: `Seat every unseated participant at the first table with a free seat
whose rule they satisfy, in table creation order. Participants no table can
take are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeating(args[0], func(store *storage.Store, chart *seating.Chart) error {
				participants, err := store.Participants().ListByEvent(chart.EventID())
				if err != nil {
					return err
				}

				unseated := chart.AutoAssign(participants)

				seated := len(participants) - len(unseated)
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %d participants seated\n", seated)
				if len(unseated) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Could not seat %d:\n", len(unseated))
					for _, p := range unseated {
						fmt.Fprintf(cmd.OutOrStdout(), "  - %s <%s>\n", p.Name, p.Email)
					}
				}
				return nil
			})
		},
	}
}

func newSeatingChartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chart <event-slug>",
		Short: "Show the seating chart",
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

			chart, err := store.Seating().LoadChart(ev.ID)
			if err != nil {
				return err
			}

			tables := chart.Tables()
			if len(tables) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tables.")
				fmt.Fprintln(cmd.OutOrStdout(), "\nAdd one with: lanyard seating add-table "+args[0]+" <name> --capacity <n>")
				return nil
			}

			participants, err := store.Participants().ListByEvent(ev.ID)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(participants))
			for _, p := range participants {
				names[p.ID.String()] = p.Name
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tSEAT\tPARTICIPANT")
			for _, t := range tables {
				if len(t.Seated()) == 0 {
					fmt.Fprintf(w, "%s\t-\t(empty, %d seats)\n", t.Name, t.Capacity)
					continue
				}
				for _, seat := range t.Seated() {
					name := names[t.Occupant(seat).String()]
					if name == "" {
						name = t.Occupant(seat).String()
					}
					fmt.Fprintf(w, "%s\t%d\t%s\n", t.Name, seat, name)
				}
			}
			return w.Flush()
		},
	}
}
