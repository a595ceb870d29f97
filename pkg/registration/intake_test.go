package registration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanyardapp/lanyard/pkg/event"
)

func openEvent(t *testing.T) *event.Event {
	t.Helper()
	ev, err := event.New("gophercon-2026", "GopherCon 2026")
	require.NoError(t, err)
	require.NoError(t, ev.AddField(event.FormField{Name: "company", Path: "profile.company"}))
	require.NoError(t, ev.AddField(event.FormField{Name: "dietary", Path: "profile.dietary"}))
	require.NoError(t, ev.Open())
	return ev
}

func TestIntake_Register(t *testing.T) {
	in := NewIntake()
	ev := openEvent(t)

	payload := []byte(`{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"profile": {"company": "Analytical Engines", "dietary": "vegetarian"}
	}`)

	p, err := in.Register(ev, payload)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "Analytical Engines", p.Company)
	assert.Equal(t, "vegetarian", p.Attributes["dietary"])
	assert.NotEmpty(t, p.CheckinCode)
	assert.Equal(t, ev.ID, p.EventID)
	assert.False(t, p.IsCheckedIn())
}

func TestIntake_EventNotOpen(t *testing.T) {
	in := NewIntake()
	ev, err := event.New("gophercon-2026", "GopherCon 2026")
	require.NoError(t, err)

	_, err = in.Register(ev, []byte(`{"name":"A","email":"a@example.com"}`))
	assert.ErrorIs(t, err, ErrEventNotOpen)
}

func TestIntake_InvalidJSON(t *testing.T) {
	in := NewIntake()
	ev := openEvent(t)

	_, err := in.Register(ev, []byte(`{"name": `))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestIntake_MissingRequiredField(t *testing.T) {
	in := NewIntake()
	ev := openEvent(t)

	_, err := in.Register(ev, []byte(`{"name": "Ada Lovelace"}`))
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestIntake_OptionalFieldAbsent(t *testing.T) {
	in := NewIntake()
	ev := openEvent(t)

	p, err := in.Register(ev, []byte(`{"name": "Ada", "email": "ada@example.com"}`))
	require.NoError(t, err)

	assert.Empty(t, p.Company)
	_, hasDietary := p.Attributes["dietary"]
	assert.False(t, hasDietary)
}

func TestIntake_SchemaValidation(t *testing.T) {
	in := NewIntake()
	require.NoError(t, in.SetSchema([]byte(`{
		"type": "object",
		"required": ["name", "email"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"email": {"type": "string", "format": "email"}
		}
	}`)))

	ev := openEvent(t)

	_, err := in.Register(ev, []byte(`{"name": "Ada", "email": "ada@example.com"}`))
	assert.NoError(t, err)

	_, err = in.Register(ev, []byte(`{"name": "Ada"}`))
	assert.True(t, errors.Is(err, ErrSchemaViolation), "got %v", err)
}

func TestIntake_BadSchema(t *testing.T) {
	in := NewIntake()
	assert.Error(t, in.SetSchema([]byte(`{"type": 42}`)))
}

func TestParticipant_QRPayload(t *testing.T) {
	ev := openEvent(t)
	p := NewParticipant(ev.ID, "Ada", "ada@example.com")

	payload := p.QRPayload(ev.Slug)
	assert.Equal(t, "lanyard://checkin/gophercon-2026/"+p.CheckinCode, payload)
}

func TestParticipant_ExprEnv(t *testing.T) {
	ev := openEvent(t)
	p := NewParticipant(ev.ID, "Ada", "ada@example.com")
	p.Company = "Analytical Engines"
	p.Attributes["dietary"] = "vegetarian"

	env := p.ExprEnv()
	assert.Equal(t, "Ada", env["name"])
	assert.Equal(t, "Analytical Engines", env["company"])
	assert.Equal(t, "vegetarian", env["dietary"])
	assert.Equal(t, false, env["checked_in"])
}
