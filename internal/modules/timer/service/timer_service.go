package service

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"mdpomo/internal/modules/timer/domain"
	timerout "mdpomo/internal/modules/timer/port/out"
	"mdpomo/internal/platform/clock"
)

// TimerService owns the single machine instance and feeds it the clock and
// the active note. It is not safe for concurrent use.
type TimerService struct {
	clock   clock.Clock
	notes   timerout.NoteLocator
	machine *domain.Machine
	logger  hclog.Logger
}

func NewTimerService(clock clock.Clock, notes timerout.NoteLocator, settings domain.Settings, logger hclog.Logger) *TimerService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TimerService{clock: clock, notes: notes, machine: domain.NewMachine(settings), logger: logger}
}

func (s *TimerService) Now() time.Time { return s.clock.Now() }

func (s *TimerService) Settings() domain.Settings { return s.machine.Settings() }

func (s *TimerService) State() domain.State { return s.machine.State() }

func (s *TimerService) Display() string { return s.machine.Display(s.clock.Now()) }

func (s *TimerService) Remaining() time.Duration { return s.machine.Remaining(s.clock.Now()) }

func (s *TimerService) Toggle(ctx context.Context) []domain.Effect {
	return s.machine.Toggle(s.input(ctx))
}

func (s *TimerService) Tick(ctx context.Context) (string, []domain.Effect) {
	return s.machine.Tick(s.input(ctx))
}

func (s *TimerService) Pause(ctx context.Context) ([]domain.Effect, error) {
	return s.machine.Pause(s.input(ctx))
}

func (s *TimerService) Resume(ctx context.Context) ([]domain.Effect, error) {
	return s.machine.Resume(s.input(ctx))
}

func (s *TimerService) Start(ctx context.Context, mode domain.Mode) ([]domain.Effect, error) {
	return s.machine.Start(s.input(ctx), mode)
}

func (s *TimerService) Next(ctx context.Context) []domain.Effect {
	return s.machine.StartNext(s.input(ctx))
}

func (s *TimerService) Quit(ctx context.Context) []domain.Effect {
	return s.machine.Quit(s.input(ctx))
}

func (s *TimerService) input(ctx context.Context) domain.Input {
	return domain.Input{
		Now: s.clock.Now(),
		ActiveNote: func() string {
			if s.notes == nil {
				return ""
			}
			note, err := s.notes.ActiveNote(ctx)
			if err != nil {
				s.logger.Debug("active note unavailable", "error", err)
				return ""
			}
			return note
		},
	}
}
