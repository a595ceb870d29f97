package storage

import (
	"database/sql"
	"fmt"
)

// MigrationVersion tracks the current database schema version.
const MigrationVersion = 1

// InitializeDatabase creates the SQLite schema for events, participants,
// seating, and campaigns. Includes migration version tracking to support
// future schema updates.
func InitializeDatabase(db *sql.DB) error {
	// Create migrations table to track schema version
	migrationsTable := `
	CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		version INTEGER NOT NULL UNIQUE,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(migrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Check current version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to check migration version: %w", err)
	}

	// Apply migrations
	if currentVersion < 1 {
		if err := applyMigration1(db); err != nil {
			return fmt.Errorf("failed to apply migration 1: %w", err)
		}
	}

	return nil
}

// applyMigration1 creates the initial database schema.
func applyMigration1(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Events table - one row per event, form definition serialized as JSON
	eventsTable := `
	CREATE TABLE events (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		venue TEXT,
		starts_at TIMESTAMP,
		ends_at TIMESTAMP,
		status TEXT NOT NULL,
		form TEXT,
		created_at TIMESTAMP NOT NULL
	);`

	if _, err := tx.Exec(eventsTable); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	// Participants table - extra form attributes serialized as JSON
	participantsTable := `
	CREATE TABLE participants (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		company TEXT,
		attributes TEXT,
		checkin_code TEXT NOT NULL UNIQUE,
		registered_at TIMESTAMP NOT NULL,
		checked_in_at TIMESTAMP,
		FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
	);`

	if _, err := tx.Exec(participantsTable); err != nil {
		return fmt.Errorf("failed to create participants table: %w", err)
	}

	participantsIndexes := []string{
		"CREATE INDEX idx_participants_event_id ON participants(event_id, registered_at);",
		"CREATE INDEX idx_participants_checkin_code ON participants(checkin_code);",
	}

	for _, idx := range participantsIndexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create participant index: %w", err)
		}
	}

	// Seating tables and seat assignments
	seatingTablesTable := `
	CREATE TABLE seating_tables (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		name TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		rule TEXT,
		position INTEGER NOT NULL,
		UNIQUE (event_id, name),
		FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
	);`

	if _, err := tx.Exec(seatingTablesTable); err != nil {
		return fmt.Errorf("failed to create seating_tables table: %w", err)
	}

	seatAssignmentsTable := `
	CREATE TABLE seat_assignments (
		table_id TEXT NOT NULL,
		seat INTEGER NOT NULL,
		participant_id TEXT NOT NULL UNIQUE,
		PRIMARY KEY (table_id, seat),
		FOREIGN KEY (table_id) REFERENCES seating_tables(id) ON DELETE CASCADE,
		FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE CASCADE
	);`

	if _, err := tx.Exec(seatAssignmentsTable); err != nil {
		return fmt.Errorf("failed to create seat_assignments table: %w", err)
	}

	// Campaigns and per-recipient tracking
	campaignsTable := `
	CREATE TABLE campaigns (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		name TEXT NOT NULL,
		subject TEXT NOT NULL,
		filter TEXT,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
	);`

	if _, err := tx.Exec(campaignsTable); err != nil {
		return fmt.Errorf("failed to create campaigns table: %w", err)
	}

	campaignRecipientsTable := `
	CREATE TABLE campaign_recipients (
		campaign_id TEXT NOT NULL,
		participant_id TEXT NOT NULL,
		email TEXT NOT NULL,
		status TEXT NOT NULL,
		sent_at TIMESTAMP,
		opened_at TIMESTAMP,
		clicked_at TIMESTAMP,
		PRIMARY KEY (campaign_id, participant_id),
		FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE CASCADE,
		FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE CASCADE
	);`

	if _, err := tx.Exec(campaignRecipientsTable); err != nil {
		return fmt.Errorf("failed to create campaign_recipients table: %w", err)
	}

	campaignIndexes := []string{
		"CREATE INDEX idx_campaigns_event_id ON campaigns(event_id, created_at DESC);",
		"CREATE INDEX idx_campaign_recipients_status ON campaign_recipients(campaign_id, status);",
	}

	for _, idx := range campaignIndexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create campaign index: %w", err)
		}
	}

	// Record migration
	if _, err := tx.Exec("INSERT INTO migrations (version) VALUES (?)", 1); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	return nil
}
