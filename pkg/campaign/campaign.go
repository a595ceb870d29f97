// Package campaign implements email campaign tracking for an event: audience
// selection, per-recipient delivery state, and engagement statistics.
// Actual mail delivery is an external collaborator behind the Sender
// interface.
package campaign

import (
	"errors"
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/lanyardapp/lanyard/pkg/domain/types"
	"github.com/lanyardapp/lanyard/pkg/registration"
)

// Status is a campaign's lifecycle state.
type Status string

// Campaign lifecycle states.
const (
	StatusDraft Status = "draft"
	StatusSent  Status = "sent"
)

// RecipientStatus is the delivery/engagement state of one recipient.
type RecipientStatus string

// Recipient states. The lifecycle is queued -> sent -> opened -> clicked,
// with bounced reachable from queued and sent.
const (
	RecipientQueued  RecipientStatus = "queued"
	RecipientSent    RecipientStatus = "sent"
	RecipientOpened  RecipientStatus = "opened"
	RecipientClicked RecipientStatus = "clicked"
	RecipientBounced RecipientStatus = "bounced"
)

// Sentinel errors for campaign operations.
var (
	ErrBadTransition       = errors.New("invalid recipient status transition")
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrCampaignAlreadySent = errors.New("campaign already sent")
)

// Campaign is one email send to a filtered audience of an event's
// participants.
type Campaign struct {
	ID      types.CampaignID
	EventID types.EventID
	Name    string
	Subject string
	// Filter is an optional boolean expression over participant attributes
	// selecting the audience; empty means every participant.
	Filter    string
	Status    Status
	CreatedAt time.Time

	program *vm.Program
}

// Recipient tracks one participant's copy of a campaign email.
type Recipient struct {
	CampaignID    types.CampaignID
	ParticipantID types.ParticipantID
	Email         string
	Status        RecipientStatus
	SentAt        time.Time
	OpenedAt      time.Time
	ClickedAt     time.Time
}

// Stats aggregates recipient states for a campaign.
type Stats struct {
	Total   int
	Queued  int
	Sent    int
	Opened  int
	Clicked int
	Bounced int
}

// Sender delivers one campaign email. Implementations live outside this
// package (the hosted mail provider); tests use fakes.
type Sender interface {
	Send(c *Campaign, r *Recipient) error
}

// New creates a draft campaign. A non-empty filter is compiled eagerly so
// invalid expressions fail at creation time.
func New(eventID types.EventID, name, subject, filter string) (*Campaign, error) {
	if name == "" {
		return nil, fmt.Errorf("campaign name cannot be empty")
	}
	if subject == "" {
		return nil, fmt.Errorf("campaign subject cannot be empty")
	}

	c := &Campaign{
		ID:        types.NewCampaignID(),
		EventID:   eventID,
		Name:      name,
		Subject:   subject,
		Filter:    filter,
		Status:    StatusDraft,
		CreatedAt: time.Now(),
	}

	if err := c.CompileFilter(); err != nil {
		return nil, err
	}

	return c, nil
}

// CompileFilter compiles the campaign's audience filter. Called by New and
// again when a campaign is rebuilt from storage, since the compiled program is
// not persisted. A no-op for campaigns without a filter.
func (c *Campaign) CompileFilter() error {
	if c.Filter == "" {
		c.program = nil
		return nil
	}
	program, err := expr.Compile(c.Filter,
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return fmt.Errorf("invalid audience filter %q: %w", c.Filter, err)
	}
	c.program = program
	return nil
}

// Audience returns the participants matching the campaign filter.
// Participants without an email address are excluded regardless of the
// filter.
func (c *Campaign) Audience(participants []*registration.Participant) ([]*registration.Participant, error) {
	var out []*registration.Participant
	for _, p := range participants {
		if p == nil || p.Email == "" {
			continue
		}
		if c.program != nil {
			res, err := expr.Run(c.program, p.ExprEnv())
			if err != nil {
				return nil, fmt.Errorf("audience filter failed for %s: %w", p.ID, err)
			}
			match, ok := res.(bool)
			if !ok || !match {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// Send delivers the campaign to its audience through the sender, producing
// one recipient record per participant. Delivery failures mark the recipient
// bounced rather than aborting the run.
func (c *Campaign) Send(sender Sender, participants []*registration.Participant) ([]*Recipient, error) {
	if c.Status == StatusSent {
		return nil, ErrCampaignAlreadySent
	}

	audience, err := c.Audience(participants)
	if err != nil {
		return nil, err
	}

	recipients := make([]*Recipient, 0, len(audience))
	for _, p := range audience {
		r := &Recipient{
			CampaignID:    c.ID,
			ParticipantID: p.ID,
			Email:         p.Email,
			Status:        RecipientQueued,
		}
		if err := sender.Send(c, r); err != nil {
			r.Status = RecipientBounced
		} else {
			r.Status = RecipientSent
			r.SentAt = time.Now()
		}
		recipients = append(recipients, r)
	}

	c.Status = StatusSent
	return recipients, nil
}

// RecordOpen marks a recipient's email as opened. Repeat opens keep the first
// open time. Opens on clicked recipients are ignored (click implies open).
func (r *Recipient) RecordOpen(at time.Time) error {
	switch r.Status {
	case RecipientSent:
		r.Status = RecipientOpened
		r.OpenedAt = at
		return nil
	case RecipientOpened, RecipientClicked:
		return nil
	default:
		return fmt.Errorf("%w: open in status %s", ErrBadTransition, r.Status)
	}
}

// RecordClick marks a recipient's email as clicked, implying an open if none
// was recorded. Repeat clicks keep the first click time.
func (r *Recipient) RecordClick(at time.Time) error {
	switch r.Status {
	case RecipientSent, RecipientOpened:
		if r.OpenedAt.IsZero() {
			r.OpenedAt = at
		}
		r.Status = RecipientClicked
		r.ClickedAt = at
		return nil
	case RecipientClicked:
		return nil
	default:
		return fmt.Errorf("%w: click in status %s", ErrBadTransition, r.Status)
	}
}

// Aggregate computes campaign statistics over recipient records. Opened and
// clicked both count toward Sent; Clicked counts toward Opened.
func Aggregate(recipients []*Recipient) Stats {
	var s Stats
	for _, r := range recipients {
		if r == nil {
			continue
		}
		s.Total++
		switch r.Status {
		case RecipientQueued:
			s.Queued++
		case RecipientSent:
			s.Sent++
		case RecipientOpened:
			s.Sent++
			s.Opened++
		case RecipientClicked:
			s.Sent++
			s.Opened++
			s.Clicked++
		case RecipientBounced:
			s.Bounced++
		}
	}
	return s
}
