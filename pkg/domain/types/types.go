// Package types defines core domain type aliases and identifiers for Lanyard.
package types

import "github.com/google/uuid"

// EventID is a unique identifier for an event.
type EventID string

// ParticipantID is a unique identifier for a registered participant.
type ParticipantID string

// TableID is a unique identifier for a seating table.
type TableID string

// CampaignID is a unique identifier for an email campaign.
type CampaignID string

// NewEventID generates a new unique event ID.
func NewEventID() EventID {
	return EventID(uuid.NewString())
}

// String returns the string representation of an EventID.
func (id EventID) String() string {
	return string(id)
}

// IsZero returns true if the EventID is the zero value.
func (id EventID) IsZero() bool {
	return id == ""
}

// NewParticipantID generates a new unique participant ID.
func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.NewString())
}

// String returns the string representation of a ParticipantID.
func (id ParticipantID) String() string {
	return string(id)
}

// IsZero returns true if the ParticipantID is the zero value.
func (id ParticipantID) IsZero() bool {
	return id == ""
}

// NewTableID generates a new unique table ID.
func NewTableID() TableID {
	return TableID(uuid.NewString())
}

// String returns the string representation of a TableID.
func (id TableID) String() string {
	return string(id)
}

// IsZero returns true if the TableID is the zero value.
func (id TableID) IsZero() bool {
	return id == ""
}

// NewCampaignID generates a new unique campaign ID.
func NewCampaignID() CampaignID {
	return CampaignID(uuid.NewString())
}

// String returns the string representation of a CampaignID.
func (id CampaignID) String() string {
	return string(id)
}

// IsZero returns true if the CampaignID is the zero value.
func (id CampaignID) IsZero() bool {
	return id == ""
}
