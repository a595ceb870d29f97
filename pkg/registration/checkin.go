package registration

import (
	"errors"
	"fmt"
	"time"

	"github.com/lanyardapp/lanyard/pkg/event"
	operr "github.com/lanyardapp/lanyard/pkg/errors"
)

// ErrUnknownCode indicates a check-in code that matches no participant.
var ErrUnknownCode = errors.New("unknown check-in code")

// CheckinResult reports the outcome of a check-in attempt.
type CheckinResult struct {
	Participant *Participant
	// AlreadyCheckedIn is true when the code was scanned before; the original
	// check-in time is preserved.
	AlreadyCheckedIn bool
}

// Service coordinates registration intake and check-in against a participant
// repository.
type Service struct {
	repo   Repository
	intake *Intake
	now    func() time.Time
}

// NewService creates a registration service.
func NewService(repo Repository, intake *Intake) *Service {
	return &Service{
		repo:   repo,
		intake: intake,
		now:    time.Now,
	}
}

// Register processes a submission and persists the resulting participant.
func (s *Service) Register(ev *event.Event, payload []byte) (*Participant, error) {
	p, err := s.intake.Register(ev, payload)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(p); err != nil {
		return nil, operr.NewOperationalError("registering participant", ev.ID.String(), p.ID.String(), err)
	}
	return p, nil
}

// CheckInByCode marks the participant with the given code as checked in.
// Checking in twice is not an error: the result reports it and the first
// check-in time stands.
func (s *Service) CheckInByCode(code string) (*CheckinResult, error) {
	if code == "" {
		return nil, fmt.Errorf("check-in code cannot be empty")
	}

	p, err := s.repo.FindByCheckinCode(code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUnknownCode
	}

	if p.IsCheckedIn() {
		return &CheckinResult{Participant: p, AlreadyCheckedIn: true}, nil
	}

	p.CheckedInAt = s.now()
	if err := s.repo.Save(p); err != nil {
		return nil, operr.NewOperationalErrorWithAttrs("checking in participant",
			p.EventID.String(), p.ID.String(), err,
			map[string]interface{}{"code": code})
	}

	return &CheckinResult{Participant: p}, nil
}
