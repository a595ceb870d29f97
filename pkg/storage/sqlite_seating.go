package storage

import (
	"database/sql"
	"fmt"

	"github.com/lanyardapp/lanyard/pkg/domain/types"
	"github.com/lanyardapp/lanyard/pkg/seating"
)

// SeatingRepository persists seating charts in SQLite. A chart is stored as
// its tables plus the current seat assignments; saving replaces the event's
// previous chart wholesale.
type SeatingRepository struct {
	db *sql.DB
}

// SaveChart persists a chart, replacing any previously stored chart for the
// same event.
func (r *SeatingRepository) SaveChart(chart *seating.Chart) error {
	if chart == nil {
		return fmt.Errorf("cannot save nil chart")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	eventID := chart.EventID().String()

	// Cascade removes the old assignments with the tables.
	if _, err := tx.Exec("DELETE FROM seating_tables WHERE event_id = ?", eventID); err != nil {
		return fmt.Errorf("failed to clear previous chart: %w", err)
	}

	for pos, t := range chart.Tables() {
		var rule sql.NullString
		if t.Rule != "" {
			rule.Valid = true
			rule.String = t.Rule
		}

		_, err := tx.Exec(
			"INSERT INTO seating_tables (id, event_id, name, capacity, rule, position) VALUES (?, ?, ?, ?, ?, ?)",
			t.ID.String(), eventID, t.Name, t.Capacity, rule, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to save table %s: %w", t.Name, err)
		}

		for _, seat := range t.Seated() {
			_, err := tx.Exec(
				"INSERT INTO seat_assignments (table_id, seat, participant_id) VALUES (?, ?, ?)",
				t.ID.String(), seat, t.Occupant(seat).String(),
			)
			if err != nil {
				return fmt.Errorf("failed to save seat %d at %s: %w", seat, t.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadChart rebuilds an event's seating chart. Returns an empty chart when
// nothing was stored.
func (r *SeatingRepository) LoadChart(eventID types.EventID) (*seating.Chart, error) {
	if eventID.IsZero() {
		return nil, fmt.Errorf("event ID cannot be empty")
	}

	chart := seating.NewChart(eventID)

	rows, err := r.db.Query(
		"SELECT id, name, capacity, rule FROM seating_tables WHERE event_id = ? ORDER BY position",
		eventID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tableIDs []types.TableID
	for rows.Next() {
		var id, name string
		var capacity int
		var rule sql.NullString
		if err := rows.Scan(&id, &name, &capacity, &rule); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		if _, err := chart.RestoreTable(types.TableID(id), name, capacity, rule.String); err != nil {
			return nil, fmt.Errorf("failed to restore table %s: %w", name, err)
		}
		tableIDs = append(tableIDs, types.TableID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	for _, tableID := range tableIDs {
		if err := r.loadAssignments(chart, tableID); err != nil {
			return nil, err
		}
	}

	return chart, nil
}

func (r *SeatingRepository) loadAssignments(chart *seating.Chart, tableID types.TableID) error {
	rows, err := r.db.Query(
		"SELECT seat, participant_id FROM seat_assignments WHERE table_id = ? ORDER BY seat",
		tableID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to query assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var seat int
		var participantID string
		if err := rows.Scan(&seat, &participantID); err != nil {
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		if err := chart.RestoreAssignment(types.ParticipantID(participantID), tableID, seat); err != nil {
			return fmt.Errorf("failed to restore assignment: %w", err)
		}
	}
	return rows.Err()
}
