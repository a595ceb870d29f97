package registration

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanyardapp/lanyard/pkg/domain/types"
	"github.com/lanyardapp/lanyard/pkg/event"
)

// memoryRepository is an in-memory Repository for tests.
type memoryRepository struct {
	participants map[types.ParticipantID]*Participant
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{participants: make(map[types.ParticipantID]*Participant)}
}

func (r *memoryRepository) Save(p *Participant) error {
	if p == nil {
		return fmt.Errorf("cannot save nil participant")
	}
	cp := *p
	r.participants[p.ID] = &cp
	return nil
}

func (r *memoryRepository) Load(id types.ParticipantID) (*Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, fmt.Errorf("participant not found: %s", id)
	}
	cp := *p
	return &cp, nil
}

func (r *memoryRepository) FindByCheckinCode(code string) (*Participant, error) {
	for _, p := range r.participants {
		if p.CheckinCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) ListByEvent(eventID types.EventID) ([]*Participant, error) {
	var out []*Participant
	for _, p := range r.participants {
		if p.EventID == eventID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryRepository) Delete(id types.ParticipantID) error {
	delete(r.participants, id)
	return nil
}

func TestService_RegisterAndCheckIn(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, NewIntake())

	ev, err := event.New("gophercon-2026", "GopherCon 2026")
	require.NoError(t, err)
	require.NoError(t, ev.Open())

	p, err := svc.Register(ev, []byte(`{"name": "Ada", "email": "ada@example.com"}`))
	require.NoError(t, err)

	// First scan checks in.
	res, err := svc.CheckInByCode(p.CheckinCode)
	require.NoError(t, err)
	assert.False(t, res.AlreadyCheckedIn)
	assert.True(t, res.Participant.IsCheckedIn())

	// Second scan is idempotent and keeps the original time.
	firstTime := res.Participant.CheckedInAt
	res2, err := svc.CheckInByCode(p.CheckinCode)
	require.NoError(t, err)
	assert.True(t, res2.AlreadyCheckedIn)
	assert.Equal(t, firstTime.Unix(), res2.Participant.CheckedInAt.Unix())
}

func TestService_CheckInUnknownCode(t *testing.T) {
	svc := NewService(newMemoryRepository(), NewIntake())

	_, err := svc.CheckInByCode("no-such-code")
	assert.ErrorIs(t, err, ErrUnknownCode)

	_, err = svc.CheckInByCode("")
	assert.Error(t, err)
}

func TestService_CheckInRecordsTime(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, NewIntake())
	fixed := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	ev, err := event.New("spring-gala", "Spring Gala")
	require.NoError(t, err)
	require.NoError(t, ev.Open())

	p, err := svc.Register(ev, []byte(`{"name": "Ada", "email": "ada@example.com"}`))
	require.NoError(t, err)

	res, err := svc.CheckInByCode(p.CheckinCode)
	require.NoError(t, err)
	assert.Equal(t, fixed, res.Participant.CheckedInAt)

	// The repository holds the updated record.
	stored, err := repo.Load(p.ID)
	require.NoError(t, err)
	assert.Equal(t, fixed, stored.CheckedInAt)
}
