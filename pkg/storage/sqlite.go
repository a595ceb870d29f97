// Package storage provides persistence for Lanyard: a SQLite database for
// events, participants, seating, and campaigns, a filesystem store for event
// definition files, and an OS keyring store for provider credentials.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lanyardapp/lanyard/pkg/domain/types"
	"github.com/lanyardapp/lanyard/pkg/event"
	"github.com/lanyardapp/lanyard/pkg/registration"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store owns the SQLite database connection and hands out typed
// repositories. Database location: ~/.lanyard/lanyard.db
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database in the default location.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	baseDir := filepath.Join(homeDir, ".lanyard")
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .lanyard directory: %w", err)
	}

	return NewStoreWithPath(filepath.Join(baseDir, "lanyard.db"))
}

// NewStoreWithPath opens a store at a custom database path. Useful for
// testing.
func NewStoreWithPath(dbPath string) (*Store, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := InitializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Events returns the event repository.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Participants returns the participant repository.
func (s *Store) Participants() *ParticipantRepository {
	return &ParticipantRepository{db: s.db}
}

// Seating returns the seating repository.
func (s *Store) Seating() *SeatingRepository {
	return &SeatingRepository{db: s.db}
}

// Campaigns returns the campaign repository.
func (s *Store) Campaigns() *CampaignRepository {
	return &CampaignRepository{db: s.db}
}

// EventRepository persists events in SQLite.
type EventRepository struct {
	db *sql.DB
}

// Save persists an event, updating it if the ID already exists.
func (r *EventRepository) Save(ev *event.Event) error {
	if ev == nil {
		return fmt.Errorf("cannot save nil event")
	}
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid event: %w", err)
	}

	form, err := json.Marshal(ev.Form)
	if err != nil {
		return fmt.Errorf("failed to serialize form: %w", err)
	}

	var startsAt, endsAt sql.NullTime
	if !ev.StartsAt.IsZero() {
		startsAt.Valid = true
		startsAt.Time = ev.StartsAt
	}
	if !ev.EndsAt.IsZero() {
		endsAt.Valid = true
		endsAt.Time = ev.EndsAt
	}

	query := `
		INSERT INTO events (
			id, slug, name, description, venue, starts_at, ends_at, status, form, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			name = excluded.name,
			description = excluded.description,
			venue = excluded.venue,
			starts_at = excluded.starts_at,
			ends_at = excluded.ends_at,
			status = excluded.status,
			form = excluded.form
	`

	_, err = r.db.Exec(query,
		ev.ID.String(),
		ev.Slug,
		ev.Name,
		ev.Description,
		ev.Venue,
		startsAt,
		endsAt,
		string(ev.Status),
		string(form),
		ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	return nil
}

// Load retrieves an event by ID.
func (r *EventRepository) Load(id types.EventID) (*event.Event, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("event ID cannot be empty")
	}
	return r.queryOne("SELECT id, slug, name, description, venue, starts_at, ends_at, status, form, created_at FROM events WHERE id = ?", id.String())
}

// LoadBySlug retrieves an event by its slug.
func (r *EventRepository) LoadBySlug(slug string) (*event.Event, error) {
	if slug == "" {
		return nil, fmt.Errorf("event slug cannot be empty")
	}
	return r.queryOne("SELECT id, slug, name, description, venue, starts_at, ends_at, status, form, created_at FROM events WHERE slug = ?", slug)
}

// List returns all events ordered by creation time, newest first.
func (r *EventRepository) List() ([]*event.Event, error) {
	rows, err := r.db.Query("SELECT id, slug, name, description, venue, starts_at, ends_at, status, form, created_at FROM events ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make([]*event.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Delete removes an event and, through foreign key cascade, its
// participants, seating, and campaigns.
func (r *EventRepository) Delete(id types.EventID) error {
	if id.IsZero() {
		return fmt.Errorf("event ID cannot be empty")
	}

	result, err := r.db.Exec("DELETE FROM events WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event not found: %s", id)
	}

	return nil
}

func (r *EventRepository) queryOne(query string, arg interface{}) (*event.Event, error) {
	ev, err := scanEvent(r.db.QueryRow(query, arg))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event not found: %v", arg)
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*event.Event, error) {
	var ev event.Event
	var description, venue, form sql.NullString
	var startsAt, endsAt sql.NullTime

	err := row.Scan(
		&ev.ID,
		&ev.Slug,
		&ev.Name,
		&description,
		&venue,
		&startsAt,
		&endsAt,
		&ev.Status,
		&form,
		&ev.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	ev.Description = description.String
	ev.Venue = venue.String
	if startsAt.Valid {
		ev.StartsAt = startsAt.Time
	}
	if endsAt.Valid {
		ev.EndsAt = endsAt.Time
	}
	if form.Valid && form.String != "" {
		if err := json.Unmarshal([]byte(form.String), &ev.Form); err != nil {
			return nil, fmt.Errorf("failed to deserialize form: %w", err)
		}
	}

	return &ev, nil
}

// ParticipantRepository persists participants in SQLite. It implements
// registration.Repository.
type ParticipantRepository struct {
	db *sql.DB
}

var _ registration.Repository = (*ParticipantRepository)(nil)

// Save persists a participant, updating it if the ID already exists.
func (r *ParticipantRepository) Save(p *registration.Participant) error {
	if p == nil {
		return fmt.Errorf("cannot save nil participant")
	}

	var attrs sql.NullString
	if len(p.Attributes) > 0 {
		data, err := json.Marshal(p.Attributes)
		if err != nil {
			return fmt.Errorf("failed to serialize attributes: %w", err)
		}
		attrs.Valid = true
		attrs.String = string(data)
	}

	var checkedInAt sql.NullTime
	if !p.CheckedInAt.IsZero() {
		checkedInAt.Valid = true
		checkedInAt.Time = p.CheckedInAt
	}

	query := `
		INSERT INTO participants (
			id, event_id, name, email, company, attributes, checkin_code,
			registered_at, checked_in_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			company = excluded.company,
			attributes = excluded.attributes,
			checked_in_at = excluded.checked_in_at
	`

	_, err := r.db.Exec(query,
		p.ID.String(),
		p.EventID.String(),
		p.Name,
		p.Email,
		p.Company,
		attrs,
		p.CheckinCode,
		p.RegisteredAt,
		checkedInAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save participant: %w", err)
	}

	return nil
}

// Load retrieves a participant by ID.
func (r *ParticipantRepository) Load(id types.ParticipantID) (*registration.Participant, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("participant ID cannot be empty")
	}

	p, err := scanParticipant(r.db.QueryRow(participantSelect+" WHERE id = ?", id.String()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("participant not found: %s", id)
	}
	return p, err
}

// FindByCheckinCode retrieves a participant by check-in code. Returns
// (nil, nil) when no participant carries the code.
func (r *ParticipantRepository) FindByCheckinCode(code string) (*registration.Participant, error) {
	if code == "" {
		return nil, fmt.Errorf("check-in code cannot be empty")
	}

	p, err := scanParticipant(r.db.QueryRow(participantSelect+" WHERE checkin_code = ?", code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListByEvent returns all participants of an event ordered by registration
// time.
func (r *ParticipantRepository) ListByEvent(eventID types.EventID) ([]*registration.Participant, error) {
	rows, err := r.db.Query(participantSelect+" WHERE event_id = ? ORDER BY registered_at", eventID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	participants := make([]*registration.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}

// Delete removes a participant.
func (r *ParticipantRepository) Delete(id types.ParticipantID) error {
	if id.IsZero() {
		return fmt.Errorf("participant ID cannot be empty")
	}

	result, err := r.db.Exec("DELETE FROM participants WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("participant not found: %s", id)
	}

	return nil
}

const participantSelect = `
	SELECT id, event_id, name, email, company, attributes, checkin_code,
	       registered_at, checked_in_at
	FROM participants`

func scanParticipant(row rowScanner) (*registration.Participant, error) {
	var p registration.Participant
	var email, company, attrs sql.NullString
	var checkedInAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.EventID,
		&p.Name,
		&email,
		&company,
		&attrs,
		&p.CheckinCode,
		&p.RegisteredAt,
		&checkedInAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}

	p.Email = email.String
	p.Company = company.String
	p.Attributes = make(map[string]interface{})
	if attrs.Valid && attrs.String != "" {
		if err := json.Unmarshal([]byte(attrs.String), &p.Attributes); err != nil {
			return nil, fmt.Errorf("failed to deserialize attributes: %w", err)
		}
	}
	if checkedInAt.Valid {
		p.CheckedInAt = checkedInAt.Time
	}

	return &p, nil
}
