// Package event defines the event aggregate: the thing participants register
// for, with its registration form definition and lifecycle status.
package event

import (
	"fmt"
	"time"

	"github.com/lanyardapp/lanyard/pkg/domain/types"
	"github.com/lanyardapp/lanyard/pkg/validation"
)

// Status is the lifecycle state of an event.
type Status string

// Event lifecycle states. Registration is only accepted while an event is
// open.
const (
	StatusDraft    Status = "draft"
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
	StatusArchived Status = "archived"
)

// FormField describes one field of an event's registration form. Path is a
// gjson path into the raw submission payload; when empty, the field name is
// used as the path.
type FormField struct {
	Name     string
	Label    string
	Path     string
	Required bool
}

// Event is an event participants register for.
type Event struct {
	ID          types.EventID
	Slug        string
	Name        string
	Description string
	Venue       string
	StartsAt    time.Time
	EndsAt      time.Time
	Status      Status
	Form        []FormField
	CreatedAt   time.Time
}

// New creates a draft event with a generated ID and a default registration
// form (name and email).
func New(slug, name string) (*Event, error) {
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("event name cannot be empty")
	}

	return &Event{
		ID:     types.NewEventID(),
		Slug:   slug,
		Name:   name,
		Status: StatusDraft,
		Form: []FormField{
			{Name: "name", Label: "Full name", Required: true},
			{Name: "email", Label: "Email", Required: true},
		},
		CreatedAt: time.Now(),
	}, nil
}

// Validate checks the event invariants: valid slug, non-empty name, ordered
// dates, and unique, well-formed form field names.
func (e *Event) Validate() error {
	if e.ID.IsZero() {
		return fmt.Errorf("event must have an ID")
	}
	if err := validation.ValidateSlug(e.Slug); err != nil {
		return err
	}
	if e.Name == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if !e.StartsAt.IsZero() && !e.EndsAt.IsZero() && e.EndsAt.Before(e.StartsAt) {
		return fmt.Errorf("event ends before it starts")
	}

	switch e.Status {
	case StatusDraft, StatusOpen, StatusClosed, StatusArchived:
	default:
		return fmt.Errorf("unknown event status: %s", e.Status)
	}

	seen := make(map[string]bool, len(e.Form))
	for _, f := range e.Form {
		if err := validation.ValidateIdentifier("form field name", f.Name); err != nil {
			return err
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate form field: %s", f.Name)
		}
		seen[f.Name] = true
	}

	return nil
}

// Field returns the form field with the given name, or false if absent.
func (e *Event) Field(name string) (FormField, bool) {
	for _, f := range e.Form {
		if f.Name == name {
			return f, true
		}
	}
	return FormField{}, false
}

// AddField appends a form field.
// Returns an error if the name is invalid or already taken.
func (e *Event) AddField(f FormField) error {
	if err := validation.ValidateIdentifier("form field name", f.Name); err != nil {
		return err
	}
	if _, exists := e.Field(f.Name); exists {
		return fmt.Errorf("duplicate form field: %s", f.Name)
	}
	e.Form = append(e.Form, f)
	return nil
}

// Open transitions the event to accepting registrations. Only draft and
// closed events can be opened.
func (e *Event) Open() error {
	switch e.Status {
	case StatusDraft, StatusClosed:
		e.Status = StatusOpen
		return nil
	default:
		return fmt.Errorf("cannot open event in status %s", e.Status)
	}
}

// Close stops accepting registrations.
func (e *Event) Close() error {
	if e.Status != StatusOpen {
		return fmt.Errorf("cannot close event in status %s", e.Status)
	}
	e.Status = StatusClosed
	return nil
}

// IsOpen reports whether the event accepts registrations.
func (e *Event) IsOpen() bool {
	return e.Status == StatusOpen
}
