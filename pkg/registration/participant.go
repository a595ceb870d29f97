// Package registration implements attendee self-registration and check-in:
// turning raw form submissions into participant records and verifying
// check-in codes at the door.
package registration

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lanyardapp/lanyard/pkg/domain/types"
)

// Participant is a registered attendee of an event.
type Participant struct {
	ID           types.ParticipantID
	EventID      types.EventID
	Name         string
	Email        string
	Company      string
	Attributes   map[string]interface{} // remaining form fields by name
	CheckinCode  string                 // opaque code embedded in the badge QR
	RegisteredAt time.Time
	CheckedInAt  time.Time // zero until the participant checks in
}

// NewParticipant creates a participant with generated ID and check-in code.
func NewParticipant(eventID types.EventID, name, email string) *Participant {
	return &Participant{
		ID:           types.NewParticipantID(),
		EventID:      eventID,
		Name:         name,
		Email:        email,
		Attributes:   make(map[string]interface{}),
		CheckinCode:  uuid.NewString(),
		RegisteredAt: time.Now(),
	}
}

// IsCheckedIn reports whether the participant has checked in.
func (p *Participant) IsCheckedIn() bool {
	return !p.CheckedInAt.IsZero()
}

// QRPayload returns the string encoded into the participant's badge QR code.
// Rendering the QR image and scanning it are host concerns.
func (p *Participant) QRPayload(eventSlug string) string {
	return fmt.Sprintf("lanyard://checkin/%s/%s", eventSlug, p.CheckinCode)
}

// ExprEnv returns the participant as an expression environment for audience
// filters and seating rules: the named fields plus all extra attributes.
func (p *Participant) ExprEnv() map[string]interface{} {
	env := make(map[string]interface{}, len(p.Attributes)+4)
	for k, v := range p.Attributes {
		env[k] = v
	}
	env["name"] = p.Name
	env["email"] = p.Email
	env["company"] = p.Company
	env["checked_in"] = p.IsCheckedIn()
	return env
}

// Repository defines persistent storage for participants.
type Repository interface {
	// Save persists a participant, updating it if the ID already exists
	Save(p *Participant) error
	// Load retrieves a participant by ID
	Load(id types.ParticipantID) (*Participant, error)
	// FindByCheckinCode retrieves a participant by check-in code
	FindByCheckinCode(code string) (*Participant, error)
	// ListByEvent returns all participants of an event
	ListByEvent(eventID types.EventID) ([]*Participant, error)
	// Delete removes a participant
	Delete(id types.ParticipantID) error
}
