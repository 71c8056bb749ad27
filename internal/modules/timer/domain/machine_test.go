package domain_test

import (
	"errors"
	"testing"
	"time"

	"mdpomo/internal/modules/timer/domain"
	apperrors "mdpomo/internal/platform/errors"
)

var t0 = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

func testSettings() domain.Settings {
	return domain.Settings{
		Work:              25 * time.Minute,
		ShortBreak:        5 * time.Minute,
		LongBreak:         15 * time.Minute,
		LongBreakInterval: 4,
		AutoStart:         true,
		Logging:           true,
		LogActiveNote:     true,
		Emoji:             true,
		Sound:             true,
	}
}

func at(now time.Time) domain.Input {
	return domain.Input{Now: now}
}

func logsOf(effects []domain.Effect) []domain.LogRequest {
	var out []domain.LogRequest
	for _, effect := range effects {
		if effect.Kind == domain.EffectLog {
			out = append(out, effect.Log)
		}
	}
	return out
}

func hasKind(effects []domain.Effect, kind domain.EffectKind) bool {
	for _, effect := range effects {
		if effect.Kind == kind {
			return true
		}
	}
	return false
}

func TestToggleFromIdleStartsWork(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	effects := machine.Toggle(domain.Input{Now: t0, ActiveNote: func() string { return "[[Thesis]]" }})

	state := machine.State()
	if state.Mode != domain.ModeWork || state.Paused {
		t.Fatalf("expected running work interval, got %+v", state)
	}
	if !state.EndTime.Equal(t0.Add(25 * time.Minute)) {
		t.Fatalf("unexpected end time %s", state.EndTime)
	}
	if !state.WorkSessionStart.Equal(t0) || !state.BreakSessionStart.IsZero() {
		t.Fatalf("unexpected session starts %+v", state)
	}
	logs := logsOf(effects)
	if len(logs) != 1 || logs[0].Kind != domain.LogWorkStart || logs[0].NoteLink != "[[Thesis]]" || logs[0].HasDuration {
		t.Fatalf("unexpected start log %+v", logs)
	}
	if !hasKind(effects, domain.EffectRecompute) {
		t.Fatalf("expected recompute after start log")
	}
	if effects[len(effects)-1].Message != "Starting 25 minute pomodoro." {
		t.Fatalf("unexpected notice %+v", effects)
	}
}

func TestQuitBeforeExpiryLogsOneQuitEarlyEntry(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	if _, err := machine.Start(at(t0), domain.ModeWork); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, tickEffects := machine.Tick(at(t0.Add(3 * time.Minute)))
	if len(tickEffects) != 0 {
		t.Fatalf("expected no effects mid interval, got %+v", tickEffects)
	}

	effects := machine.Quit(at(t0.Add(7*time.Minute + 30*time.Second)))
	logs := logsOf(effects)
	if len(logs) != 1 {
		t.Fatalf("expected exactly one log entry, got %+v", logs)
	}
	if logs[0].Kind != domain.LogWorkQuitEarly || !logs[0].HasDuration {
		t.Fatalf("expected quit early entry, got %+v", logs[0])
	}
	if logs[0].Duration != 7*time.Minute+30*time.Second {
		t.Fatalf("unexpected quit early duration %s", logs[0].Duration)
	}
	if !hasKind(effects, domain.EffectStopAmbient) {
		t.Fatalf("expected ambient stop on quit")
	}
	if machine.State() != (domain.State{}) {
		t.Fatalf("expected zeroed state, got %+v", machine.State())
	}
}

func TestQuitDuringBreakOrIdleLogsNothing(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	if logs := logsOf(machine.Quit(at(t0))); len(logs) != 0 {
		t.Fatalf("idle quit logged %+v", logs)
	}
	if _, err := machine.Start(at(t0), domain.ModeShortBreak); err != nil {
		t.Fatalf("start break: %v", err)
	}
	if logs := logsOf(machine.Quit(at(t0.Add(time.Minute)))); len(logs) != 0 {
		t.Fatalf("break quit logged %+v", logs)
	}
}

func TestQuitWhilePausedLogsRunningTimeOnly(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	_, _ = machine.Start(at(t0), domain.ModeWork)
	_, _ = machine.Pause(at(t0.Add(10 * time.Minute)))
	_, _ = machine.Resume(at(t0.Add(30 * time.Minute)))
	if _, err := machine.Pause(at(t0.Add(44 * time.Minute))); err != nil {
		t.Fatalf("pause: %v", err)
	}
	logs := logsOf(machine.Quit(at(t0.Add(90 * time.Minute))))
	if len(logs) != 1 || logs[0].Kind != domain.LogWorkQuitEarly || logs[0].Duration != 24*time.Minute {
		t.Fatalf("expected 24m quit early entry, got %+v", logs)
	}
}

func TestQuitAfterResumeExcludesPausedTime(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	_, _ = machine.Start(at(t0), domain.ModeWork)
	_, _ = machine.Pause(at(t0.Add(5 * time.Minute)))
	_, _ = machine.Resume(at(t0.Add(65 * time.Minute)))
	logs := logsOf(machine.Quit(at(t0.Add(70 * time.Minute))))
	if len(logs) != 1 || logs[0].Duration != 10*time.Minute {
		t.Fatalf("expected 10m of work, got %+v", logs)
	}
}

func TestQuitParkedWorkIntervalLogsNothing(t *testing.T) {
	t.Parallel()
	settings := testSettings()
	settings.AutoStart = false
	settings.AutoCycles = 1
	machine := domain.NewMachine(settings)
	_, _ = machine.Start(at(t0), domain.ModeShortBreak)
	machine.Tick(at(t0.Add(5 * time.Minute)))
	if state := machine.State(); state.Mode != domain.ModeWork || !state.AutoPaused {
		t.Fatalf("expected parked work interval, got %+v", state)
	}

	effects := machine.Quit(at(t0.Add(3 * time.Hour)))
	if logs := logsOf(effects); len(logs) != 0 {
		t.Fatalf("parked interval must not log work, got %+v", logs)
	}
	if hasKind(effects, domain.EffectRecompute) {
		t.Fatalf("nothing logged, nothing to recompute")
	}
}

func TestLongBreakEveryFourthWorkInterval(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	now := t0
	_, _ = machine.Start(at(now), domain.ModeWork)

	var breaks []domain.Mode
	for len(breaks) < 8 {
		now = machine.State().EndTime
		wasWork := machine.State().Mode == domain.ModeWork
		_, effects := machine.Tick(at(now))
		if len(effects) == 0 {
			t.Fatalf("expected completion effects at %s", now)
		}
		if wasWork {
			breaks = append(breaks, machine.State().Mode)
		}
	}

	want := []domain.Mode{
		domain.ModeShortBreak, domain.ModeShortBreak, domain.ModeShortBreak, domain.ModeLongBreak,
		domain.ModeShortBreak, domain.ModeShortBreak, domain.ModeShortBreak, domain.ModeLongBreak,
	}
	for i := range want {
		if breaks[i] != want[i] {
			t.Fatalf("break %d: expected %s, got %s (all: %v)", i+1, want[i], breaks[i], breaks)
		}
	}
	if machine.State().PomosSinceStart != 8 {
		t.Fatalf("expected 8 completed pomodoros, got %d", machine.State().PomosSinceStart)
	}
}

func TestCompletionLogsDurationsAndRequestsAlerts(t *testing.T) {
	t.Parallel()
	settings := testSettings()
	settings.SystemNotification = true
	machine := domain.NewMachine(settings)
	_, _ = machine.Start(at(t0), domain.ModeWork)

	_, effects := machine.Tick(at(t0.Add(25 * time.Minute)))
	logs := logsOf(effects)
	if len(logs) != 2 {
		t.Fatalf("expected completion and next start entries, got %+v", logs)
	}
	if logs[0].Kind != domain.LogWorkComplete || logs[0].Duration != 25*time.Minute {
		t.Fatalf("unexpected completion entry %+v", logs[0])
	}
	if logs[1].Kind != domain.LogBreakStart {
		t.Fatalf("expected break start entry, got %+v", logs[1])
	}
	if !hasKind(effects, domain.EffectPlaySound) {
		t.Fatalf("expected sound effect")
	}
	var system domain.Effect
	for _, effect := range effects {
		if effect.Kind == domain.EffectSystemNotification {
			system = effect
		}
	}
	if system.Title != "Pomodoro 🍅" || system.Message != "End of the pomodoro, time to take a break 🏖" {
		t.Fatalf("unexpected system notification %+v", system)
	}

	_, effects = machine.Tick(at(t0.Add(30 * time.Minute)))
	logs = logsOf(effects)
	if logs[0].Kind != domain.LogBreakComplete || logs[0].Duration != 5*time.Minute || !logs[0].HasDuration {
		t.Fatalf("unexpected break completion %+v", logs[0])
	}
}

func TestPauseResumeShiftsEndByPausedTimeOnly(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	_, _ = machine.Start(at(t0), domain.ModeWork)

	now := t0
	var paused time.Duration
	for i := 0; i < 5; i++ {
		now = now.Add(2 * time.Minute)
		if _, err := machine.Pause(at(now)); err != nil {
			t.Fatalf("pause %d: %v", i, err)
		}
		if got := machine.Display(now.Add(time.Hour)); got != machine.Display(now) {
			t.Fatalf("paused countdown moved: %s", got)
		}
		gap := time.Duration(i+1) * 45 * time.Second
		now = now.Add(gap)
		paused += gap
		if _, err := machine.Resume(at(now)); err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
	}
	want := t0.Add(25*time.Minute + paused)
	if !machine.State().EndTime.Equal(want) {
		t.Fatalf("expected end %s, got %s", want, machine.State().EndTime)
	}
	if !machine.State().WorkSessionStart.Equal(t0) {
		t.Fatalf("session start must survive pause/resume, got %s", machine.State().WorkSessionStart)
	}
}

func TestPauseResumeRejectInvalidStates(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	if _, err := machine.Pause(at(t0)); !errors.Is(err, apperrors.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	if _, err := machine.Resume(at(t0)); !errors.Is(err, apperrors.ErrNotPaused) {
		t.Fatalf("expected ErrNotPaused, got %v", err)
	}
	if _, err := machine.Start(at(t0), domain.ModeIdle); !errors.Is(err, apperrors.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	_, _ = machine.Start(at(t0), domain.ModeWork)
	if _, err := machine.Resume(at(t0)); !errors.Is(err, apperrors.ErrNotPaused) {
		t.Fatalf("expected ErrNotPaused while running, got %v", err)
	}
	_, _ = machine.Pause(at(t0))
	if _, err := machine.Pause(at(t0)); !errors.Is(err, apperrors.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning while paused, got %v", err)
	}
}

func TestAutoStopParksNextWorkIntervalPaused(t *testing.T) {
	t.Parallel()
	settings := testSettings()
	settings.AutoStart = false
	settings.AutoCycles = 1
	settings.Ambient = true
	machine := domain.NewMachine(settings)
	_, _ = machine.Start(at(t0), domain.ModeWork)

	_, _ = machine.Tick(at(t0.Add(25 * time.Minute)))
	if state := machine.State(); state.Mode != domain.ModeShortBreak || state.Paused {
		t.Fatalf("expected running short break, got %+v", state)
	}

	display, effects := machine.Tick(at(t0.Add(30 * time.Minute)))
	state := machine.State()
	if state.Mode != domain.ModeWork || !state.Paused || !state.AutoPaused {
		t.Fatalf("expected auto-paused work interval, got %+v", state)
	}
	if state.Remaining != 25*time.Minute || state.CyclesSinceAutoStop != 0 {
		t.Fatalf("unexpected parked state %+v", state)
	}
	if display != "🍅 25:00" {
		t.Fatalf("unexpected display %q", display)
	}
	if hasKind(effects, domain.EffectStartAmbient) || !hasKind(effects, domain.EffectStopAmbient) {
		t.Fatalf("auto-stop must not start ambient sound: %+v", effects)
	}
	for _, req := range logsOf(effects) {
		if req.Kind == domain.LogWorkStart {
			t.Fatalf("auto-stop must not log a start entry")
		}
	}

	if _, effects := machine.Tick(at(t0.Add(2 * time.Hour))); len(effects) != 0 {
		t.Fatalf("parked timer must not complete, got %+v", effects)
	}

	resumeAt := t0.Add(3 * time.Hour)
	effects, err := machine.Resume(domain.Input{Now: resumeAt, ActiveNote: func() string { return "[[Next]]" }})
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	logs := logsOf(effects)
	if len(logs) != 1 || logs[0].Kind != domain.LogWorkStart || logs[0].NoteLink != "[[Next]]" {
		t.Fatalf("expected start entry on resume from auto-stop, got %+v", logs)
	}
	if state := machine.State(); !state.WorkSessionStart.Equal(resumeAt) || !state.EndTime.Equal(resumeAt.Add(25*time.Minute)) {
		t.Fatalf("unexpected resumed state %+v", state)
	}
}

func TestAutoStartOffWithZeroCyclesStopsAfterEveryInterval(t *testing.T) {
	t.Parallel()
	settings := testSettings()
	settings.AutoStart = false
	machine := domain.NewMachine(settings)
	_, _ = machine.Start(at(t0), domain.ModeWork)
	_, _ = machine.Tick(at(t0.Add(25 * time.Minute)))
	if state := machine.State(); state.Mode != domain.ModeShortBreak || !state.Paused {
		t.Fatalf("expected parked short break, got %+v", state)
	}
}

func TestTickDisplay(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	if display, effects := machine.Tick(at(t0)); display != "" || effects != nil {
		t.Fatalf("idle tick must be empty, got %q %+v", display, effects)
	}
	_, _ = machine.Start(at(t0), domain.ModeWork)
	if display, _ := machine.Tick(at(t0.Add(500 * time.Millisecond))); display != "🍅 25:00" {
		t.Fatalf("unexpected display %q", display)
	}
	if display, _ := machine.Tick(at(t0.Add(10 * time.Minute))); display != "🍅 15:00" {
		t.Fatalf("unexpected display %q", display)
	}

	plain := testSettings()
	plain.Emoji = false
	plain.LongBreak = 90 * time.Minute
	machine = domain.NewMachine(plain)
	_, _ = machine.Start(at(t0), domain.ModeLongBreak)
	if display, _ := machine.Tick(at(t0)); display != "01:30:00" {
		t.Fatalf("unexpected long display %q", display)
	}
}

func TestDurationOfIdlePanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for idle duration")
		}
	}()
	testSettings().DurationOf(domain.ModeIdle)
}

func TestNextMode(t *testing.T) {
	t.Parallel()
	cases := []struct {
		current  domain.Mode
		done     int
		interval int
		want     domain.Mode
	}{
		{domain.ModeWork, 1, 4, domain.ModeShortBreak},
		{domain.ModeWork, 4, 4, domain.ModeLongBreak},
		{domain.ModeWork, 4, 0, domain.ModeShortBreak},
		{domain.ModeWork, 0, 4, domain.ModeShortBreak},
		{domain.ModeWork, 3, 1, domain.ModeLongBreak},
		{domain.ModeShortBreak, 3, 4, domain.ModeWork},
		{domain.ModeLongBreak, 4, 4, domain.ModeWork},
		{domain.ModeIdle, 0, 4, domain.ModeWork},
	}
	for _, tc := range cases {
		if got := domain.NextMode(tc.current, tc.done, tc.interval); got != tc.want {
			t.Fatalf("NextMode(%s, %d, %d) = %s, want %s", tc.current, tc.done, tc.interval, got, tc.want)
		}
	}
}

func TestActiveNoteKeptWhenNothingOpen(t *testing.T) {
	t.Parallel()
	machine := domain.NewMachine(testSettings())
	_, _ = machine.Start(domain.Input{Now: t0, ActiveNote: func() string { return "[[Draft]]" }}, domain.ModeWork)
	effects, _ := machine.Start(domain.Input{Now: t0.Add(time.Minute), ActiveNote: func() string { return "" }}, domain.ModeShortBreak)
	if logs := logsOf(effects); logs[0].NoteLink != "[[Draft]]" {
		t.Fatalf("expected previous note to be kept, got %+v", logs)
	}
}
