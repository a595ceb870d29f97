package campaign

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanyardapp/lanyard/pkg/domain/types"
	"github.com/lanyardapp/lanyard/pkg/registration"
)

// fakeSender records deliveries and can fail selected addresses.
type fakeSender struct {
	sent []string
	fail map[string]bool
}

func (s *fakeSender) Send(c *Campaign, r *Recipient) error {
	if s.fail[r.Email] {
		return fmt.Errorf("mailbox unavailable: %s", r.Email)
	}
	s.sent = append(s.sent, r.Email)
	return nil
}

func newParticipant(eventID types.EventID, name, email, company string) *registration.Participant {
	p := registration.NewParticipant(eventID, name, email)
	p.Company = company
	return p
}

func TestNew_Validation(t *testing.T) {
	eventID := types.NewEventID()

	c, err := New(eventID, "Reminder", "See you tomorrow", "")
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, c.Status)
	assert.False(t, c.ID.IsZero())

	_, err = New(eventID, "", "Subject", "")
	assert.Error(t, err)

	_, err = New(eventID, "Name", "", "")
	assert.Error(t, err)

	_, err = New(eventID, "Broken", "Subject", "company ==")
	assert.Error(t, err)
}

func TestCampaign_Audience(t *testing.T) {
	eventID := types.NewEventID()
	ada := newParticipant(eventID, "Ada", "ada@example.com", "Analytical Engines")
	grace := newParticipant(eventID, "Grace", "grace@example.com", "Navy")
	noEmail := newParticipant(eventID, "Anon", "", "Navy")
	all := []*registration.Participant{ada, grace, noEmail}

	// No filter selects everyone with an email address.
	c, err := New(eventID, "All hands", "Welcome", "")
	require.NoError(t, err)
	audience, err := c.Audience(all)
	require.NoError(t, err)
	assert.Len(t, audience, 2)

	// Filter on a built-in field.
	c, err = New(eventID, "VIP", "Welcome", `company == "Navy"`)
	require.NoError(t, err)
	audience, err = c.Audience(all)
	require.NoError(t, err)
	require.Len(t, audience, 1)
	assert.Equal(t, grace.ID, audience[0].ID)

	// Filter on a custom form attribute; participants missing it don't match.
	ada.Attributes["dietary"] = "vegetarian"
	c, err = New(eventID, "Menu", "Dinner options", `dietary == "vegetarian"`)
	require.NoError(t, err)
	audience, err = c.Audience(all)
	require.NoError(t, err)
	require.Len(t, audience, 1)
	assert.Equal(t, ada.ID, audience[0].ID)
}

func TestCampaign_Send(t *testing.T) {
	eventID := types.NewEventID()
	ada := newParticipant(eventID, "Ada", "ada@example.com", "Analytical Engines")
	grace := newParticipant(eventID, "Grace", "grace@example.com", "Navy")

	c, err := New(eventID, "Reminder", "Doors open at 9", "")
	require.NoError(t, err)

	sender := &fakeSender{fail: map[string]bool{"grace@example.com": true}}
	recipients, err := c.Send(sender, []*registration.Participant{ada, grace})
	require.NoError(t, err)
	require.Len(t, recipients, 2)

	assert.Equal(t, StatusSent, c.Status)
	assert.Equal(t, []string{"ada@example.com"}, sender.sent)

	assert.Equal(t, RecipientSent, recipients[0].Status)
	assert.False(t, recipients[0].SentAt.IsZero())
	assert.Equal(t, RecipientBounced, recipients[1].Status)
	assert.True(t, recipients[1].SentAt.IsZero())

	// A campaign sends once.
	_, err = c.Send(sender, []*registration.Participant{ada})
	assert.ErrorIs(t, err, ErrCampaignAlreadySent)
}

func TestRecipient_OpenAndClick(t *testing.T) {
	at := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	later := at.Add(5 * time.Minute)

	r := &Recipient{Status: RecipientSent}
	require.NoError(t, r.RecordOpen(at))
	assert.Equal(t, RecipientOpened, r.Status)
	assert.Equal(t, at, r.OpenedAt)

	// Repeat opens keep the first time.
	require.NoError(t, r.RecordOpen(later))
	assert.Equal(t, at, r.OpenedAt)

	require.NoError(t, r.RecordClick(later))
	assert.Equal(t, RecipientClicked, r.Status)
	assert.Equal(t, later, r.ClickedAt)

	// Opens and clicks after a click are ignored.
	require.NoError(t, r.RecordOpen(later.Add(time.Minute)))
	require.NoError(t, r.RecordClick(later.Add(time.Minute)))
	assert.Equal(t, at, r.OpenedAt)
	assert.Equal(t, later, r.ClickedAt)
}

func TestRecipient_ClickImpliesOpen(t *testing.T) {
	at := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	r := &Recipient{Status: RecipientSent}
	require.NoError(t, r.RecordClick(at))
	assert.Equal(t, RecipientClicked, r.Status)
	assert.Equal(t, at, r.OpenedAt)
	assert.Equal(t, at, r.ClickedAt)
}

func TestRecipient_BadTransitions(t *testing.T) {
	at := time.Now()

	queued := &Recipient{Status: RecipientQueued}
	assert.ErrorIs(t, queued.RecordOpen(at), ErrBadTransition)
	assert.ErrorIs(t, queued.RecordClick(at), ErrBadTransition)

	bounced := &Recipient{Status: RecipientBounced}
	assert.ErrorIs(t, bounced.RecordOpen(at), ErrBadTransition)
	assert.ErrorIs(t, bounced.RecordClick(at), ErrBadTransition)
}

func TestAggregate(t *testing.T) {
	recipients := []*Recipient{
		{Status: RecipientQueued},
		{Status: RecipientSent},
		{Status: RecipientSent},
		{Status: RecipientOpened},
		{Status: RecipientClicked},
		{Status: RecipientBounced},
		nil,
	}

	s := Aggregate(recipients)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 1, s.Queued)
	assert.Equal(t, 4, s.Sent)
	assert.Equal(t, 2, s.Opened)
	assert.Equal(t, 1, s.Clicked)
	assert.Equal(t, 1, s.Bounced)
}
