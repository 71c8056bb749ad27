package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	hookdto "mdpomo/internal/modules/hook/dto"
	hookin "mdpomo/internal/modules/hook/port/in"
	pomologdto "mdpomo/internal/modules/pomolog/dto"
	pomologin "mdpomo/internal/modules/pomolog/port/in"
	"mdpomo/internal/modules/timer/domain"
	"mdpomo/internal/modules/timer/dto"
	timerin "mdpomo/internal/modules/timer/port/in"
	timerout "mdpomo/internal/modules/timer/port/out"
	"mdpomo/internal/modules/timer/service"
	apperrors "mdpomo/internal/platform/errors"
	"mdpomo/internal/platform/id"
)

// Interactor serializes every timer operation and executes the effects each
// transition returns, in order.
type Interactor struct {
	mu       sync.Mutex
	svc      *service.TimerService
	log      pomologin.Usecase
	sound    timerout.SoundPlayer
	notifier timerout.Notifier
	hooks    hookin.Usecase
	logger   hclog.Logger
	runID    string
	notice   string
}

type Option func(*Interactor)

func WithLog(log pomologin.Usecase) Option {
	return func(i *Interactor) { i.log = log }
}

func WithSound(sound timerout.SoundPlayer) Option {
	return func(i *Interactor) { i.sound = sound }
}

func WithNotifier(notifier timerout.Notifier) Option {
	return func(i *Interactor) { i.notifier = notifier }
}

func WithHooks(hooks hookin.Usecase) Option {
	return func(i *Interactor) { i.hooks = hooks }
}

func WithLogger(logger hclog.Logger) Option {
	return func(i *Interactor) { i.logger = logger }
}

func NewInteractor(svc *service.TimerService, idGen id.Generator, opts ...Option) timerin.Usecase {
	i := &Interactor{svc: svc, logger: hclog.NewNullLogger()}
	if idGen != nil {
		i.runID = idGen.New()
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Interactor) Toggle(ctx context.Context) (dto.Status, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status(i.dispatch(ctx, i.svc.Toggle(ctx))), nil
}

func (i *Interactor) Tick(ctx context.Context) (dto.Status, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, effects := i.svc.Tick(ctx)
	return i.status(i.dispatch(ctx, effects)), nil
}

func (i *Interactor) Pause(ctx context.Context) (dto.Status, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	effects, err := i.svc.Pause(ctx)
	if err != nil {
		return i.status(nil), err
	}
	return i.status(i.dispatch(ctx, effects)), nil
}

func (i *Interactor) Resume(ctx context.Context) (dto.Status, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	effects, err := i.svc.Resume(ctx)
	if err != nil {
		return i.status(nil), err
	}
	return i.status(i.dispatch(ctx, effects)), nil
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.Status, error) {
	mode := domain.ModeWork
	if input.Mode != "" {
		parsed, ok := domain.ParseMode(input.Mode)
		if !ok {
			return dto.Status{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidMode, input.Mode)
		}
		mode = parsed
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	effects, err := i.svc.Start(ctx, mode)
	if err != nil {
		return i.status(nil), err
	}
	return i.status(i.dispatch(ctx, effects)), nil
}

func (i *Interactor) Next(ctx context.Context) (dto.Status, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status(i.dispatch(ctx, i.svc.Next(ctx))), nil
}

// Quit always succeeds. Side-effect failures go to the diagnostic log only.
func (i *Interactor) Quit(ctx context.Context) (dto.Status, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	_ = i.dispatch(ctx, i.svc.Quit(ctx))
	return i.status(nil), nil
}

func (i *Interactor) Status(_ context.Context) (dto.Status, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status(nil), nil
}

func (i *Interactor) Settings(_ context.Context) (dto.SettingsOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	s := i.svc.Settings()
	return dto.SettingsOutput{
		Work:              s.Work,
		ShortBreak:        s.ShortBreak,
		LongBreak:         s.LongBreak,
		LongBreakInterval: s.LongBreakInterval,
		AutoStart:         s.AutoStart,
		AutoCycles:        s.AutoCycles,
		Logging:           s.Logging,
	}, nil
}

// dispatch runs effects in order. A failing effect is logged and reported as
// a warning; it never aborts the remaining effects or touches timer state.
func (i *Interactor) dispatch(ctx context.Context, effects []domain.Effect) []string {
	var warnings []string
	for _, effect := range effects {
		if err := i.apply(ctx, effect); err != nil {
			i.logger.Warn("timer effect failed", "effect", effect.Kind.String(), "error", err)
			warnings = append(warnings, fmt.Sprintf("%s: %v", effect.Kind, err))
		}
		i.forward(ctx, effect)
	}
	return warnings
}

func (i *Interactor) apply(ctx context.Context, effect domain.Effect) error {
	switch effect.Kind {
	case domain.EffectLog:
		if i.log == nil {
			return apperrors.ErrLoggingUnavailable
		}
		_, err := i.log.LogEntry(ctx, pomologdto.EntryInput{
			Kind:        effect.Log.Kind.String(),
			At:          effect.Log.At,
			Duration:    effect.Log.Duration,
			HasDuration: effect.Log.HasDuration,
			NoteLink:    effect.Log.NoteLink,
		})
		return err
	case domain.EffectRecompute:
		if i.log == nil {
			return nil
		}
		summary, err := i.log.RecomputeDay(ctx, effect.Day)
		for _, problem := range summary.Problems {
			i.logger.Debug("log entry skipped in totals", "path", summary.Path, "problem", problem)
		}
		return err
	case domain.EffectPlaySound:
		if i.sound == nil {
			return nil
		}
		return i.sound.PlayOnce(ctx)
	case domain.EffectStartAmbient:
		if i.sound == nil {
			return nil
		}
		return i.sound.StartLoop(ctx)
	case domain.EffectStopAmbient:
		if i.sound == nil {
			return nil
		}
		return i.sound.StopLoop(ctx)
	case domain.EffectNotice:
		i.notice = effect.Message
		if i.notifier == nil {
			return nil
		}
		return i.notifier.Notice(ctx, effect.Message)
	case domain.EffectSystemNotification:
		if i.notifier == nil {
			return nil
		}
		return i.notifier.System(ctx, effect.Title, effect.Message)
	default:
		return fmt.Errorf("unknown effect kind %d", int(effect.Kind))
	}
}

// forward hands the effect to subscribed hooks. Hook failures are logged and
// do not surface as warnings.
func (i *Interactor) forward(ctx context.Context, effect domain.Effect) {
	if i.hooks == nil {
		return
	}
	event := hookdto.EventInput{
		Name:    eventName(effect),
		RunID:   i.runID,
		Mode:    i.svc.State().Mode.String(),
		At:      i.svc.Now(),
		Title:   effect.Title,
		Message: effect.Message,
	}
	if effect.Kind == domain.EffectLog {
		event.At = effect.Log.At
		event.LogKind = effect.Log.Kind.String()
		event.Duration = effect.Log.Duration
	}
	if _, err := i.hooks.Dispatch(ctx, event); err != nil {
		i.logger.Warn("hook dispatch failed", "event", event.Name, "error", err)
	}
}

func eventName(effect domain.Effect) string {
	if effect.Kind == domain.EffectLog {
		return "log." + effect.Log.Kind.String()
	}
	return effect.Kind.String()
}

func (i *Interactor) status(warnings []string) dto.Status {
	state := i.svc.State()
	status := dto.Status{
		Mode:                state.Mode.String(),
		Running:             state.Mode != domain.ModeIdle && !state.Paused,
		Paused:              state.Paused,
		AutoPaused:          state.AutoPaused,
		Display:             i.svc.Display(),
		Remaining:           i.svc.Remaining(),
		PomosSinceStart:     state.PomosSinceStart,
		CyclesSinceAutoStop: state.CyclesSinceAutoStop,
		ActiveNote:          state.ActiveNote,
		Notice:              i.notice,
		Warnings:            warnings,
	}
	if status.Running {
		status.EndsAt = state.EndTime
	}
	return status
}
