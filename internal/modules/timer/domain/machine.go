package domain

import (
	"fmt"
	"time"

	"mdpomo/internal/platform/duration"
	apperrors "mdpomo/internal/platform/errors"
)

const (
	workEmoji   = "🍅"
	breakEmoji  = "🏖"
	statusWork  = "🍅 "
	statusBreak = "🏖️ "
)

// Input carries what a transition may observe about the outside world.
// ActiveNote is evaluated only when a transition captures the note.
type Input struct {
	Now        time.Time
	ActiveNote func() string
}

// State is the session state. A zero time means "unset" for the session
// start fields. Active is the running time of the current interval banked
// before the latest pause; time spent paused is never added to it.
type State struct {
	Mode                Mode
	StartTime           time.Time
	EndTime             time.Time
	Paused              bool
	AutoPaused          bool
	Remaining           time.Duration
	Active              time.Duration
	PomosSinceStart     int
	CyclesSinceAutoStop int
	WorkSessionStart    time.Time
	BreakSessionStart   time.Time
	ActiveNote          string
}

// Machine is the pomodoro state machine. It is not safe for concurrent use;
// callers serialize access.
type Machine struct {
	settings Settings
	state    State
}

func NewMachine(settings Settings) *Machine {
	return &Machine{settings: settings}
}

func (m *Machine) Settings() Settings { return m.settings }

// SetSettings replaces the configuration. The running interval keeps its
// bounds; new durations apply from the next interval.
func (m *Machine) SetSettings(settings Settings) {
	m.settings = settings
}

func (m *Machine) State() State { return m.state }

// Remaining is the countdown value at now.
func (m *Machine) Remaining(now time.Time) time.Duration {
	switch {
	case m.state.Mode == ModeIdle:
		return 0
	case m.state.Paused:
		return m.state.Remaining
	}
	left := m.state.EndTime.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Display renders the countdown, with the mode emoji when enabled. Idle
// renders as the empty string.
func (m *Machine) Display(now time.Time) string {
	if m.state.Mode == ModeIdle {
		return ""
	}
	text := duration.Format(ceilSecond(m.Remaining(now)))
	if !m.settings.Emoji {
		return text
	}
	if m.state.Mode == ModeWork {
		return statusWork + text
	}
	return statusBreak + text
}

// Toggle starts a work interval from idle and otherwise flips pause.
func (m *Machine) Toggle(in Input) []Effect {
	if m.state.Mode == ModeIdle {
		effects, _ := m.Start(in, ModeWork)
		return effects
	}
	if m.state.Paused {
		effects, _ := m.Resume(in)
		return effects
	}
	effects, _ := m.Pause(in)
	return effects
}

// Tick returns the countdown string, completing the current interval first
// when its end time has been reached.
func (m *Machine) Tick(in Input) (string, []Effect) {
	if m.state.Mode == ModeIdle {
		return "", nil
	}
	var effects []Effect
	if !m.state.Paused && !in.Now.Before(m.state.EndTime) {
		effects = m.Complete(in)
	}
	return m.Display(in.Now), effects
}

// Complete finishes the current interval and either starts the next one or,
// when the auto-cycle threshold is reached with auto-start off, parks the
// timer paused at the start of the next interval.
func (m *Machine) Complete(in Input) []Effect {
	completed := m.state.Mode
	if completed == ModeIdle {
		return nil
	}
	var effects []Effect
	if completed == ModeWork {
		m.state.PomosSinceStart++
	} else {
		m.state.CyclesSinceAutoStop++
	}

	if m.settings.Logging {
		effects = append(effects, logEffect(m.completionEntry(completed, in.Now)), recomputeEffect(in.Now))
	}
	if m.settings.Sound {
		effects = append(effects, Effect{Kind: EffectPlaySound})
	}
	if m.settings.SystemNotification {
		effects = append(effects, Effect{
			Kind:    EffectSystemNotification,
			Title:   m.notificationTitle(),
			Message: m.completionMessage(completed),
		})
	}

	next := NextMode(completed, m.state.PomosSinceStart, m.settings.LongBreakInterval)
	if !m.settings.AutoStart && m.settings.AutoCycles <= m.state.CyclesSinceAutoStop {
		m.park(next, in.Now)
		return append(effects, Effect{Kind: EffectStopAmbient})
	}
	started, _ := m.Start(in, next)
	return append(effects, started...)
}

// Pause freezes the countdown.
func (m *Machine) Pause(in Input) ([]Effect, error) {
	if m.state.Mode == ModeIdle || m.state.Paused {
		return nil, apperrors.ErrNotRunning
	}
	m.state.Remaining = m.Remaining(in.Now)
	m.state.Active += nonNegative(in.Now.Sub(m.state.StartTime))
	m.state.Paused = true
	effects := []Effect{{Kind: EffectStopAmbient}, noticeEffect("Timer paused.")}
	if m.settings.Logging {
		effects = append(effects, recomputeEffect(in.Now))
	}
	return effects, nil
}

// Resume restarts a paused countdown from the frozen remaining time. Resuming
// an auto-pause begins a fresh logical session.
func (m *Machine) Resume(in Input) ([]Effect, error) {
	if m.state.Mode == ModeIdle || !m.state.Paused {
		return nil, apperrors.ErrNotPaused
	}
	var effects []Effect
	if m.state.AutoPaused {
		m.state.AutoPaused = false
		m.markSessionStart(in.Now)
		m.captureNote(in)
		if m.settings.Logging {
			effects = append(effects, logEffect(m.startEntry(in.Now)), recomputeEffect(in.Now))
		}
	}
	m.state.StartTime = in.Now
	m.state.EndTime = in.Now.Add(m.state.Remaining)
	m.state.Remaining = 0
	m.state.Paused = false

	if m.state.Mode == ModeWork {
		effects = append(effects, noticeEffect("Restarting pomodoro."))
	} else {
		effects = append(effects, noticeEffect("Restarting break."))
	}
	if m.settings.Ambient {
		effects = append(effects, Effect{Kind: EffectStartAmbient})
	}
	return effects, nil
}

// Start begins an interval of the given mode at in.Now, replacing whatever
// interval was current.
func (m *Machine) Start(in Input, mode Mode) ([]Effect, error) {
	if mode == ModeIdle {
		return nil, apperrors.ErrInvalidMode
	}
	length := m.settings.DurationOf(mode)
	m.state.Mode = mode
	m.state.StartTime = in.Now
	m.state.EndTime = in.Now.Add(length)
	m.state.Paused = false
	m.state.AutoPaused = false
	m.state.Remaining = 0
	m.state.Active = 0
	m.markSessionStart(in.Now)
	m.captureNote(in)

	var effects []Effect
	if m.settings.Logging {
		effects = append(effects, logEffect(m.startEntry(in.Now)), recomputeEffect(in.Now))
	}
	minutes := int(length / time.Minute)
	if mode == ModeWork {
		effects = append(effects, noticeEffect(fmt.Sprintf("Starting %d minute pomodoro.", minutes)))
	} else {
		effects = append(effects, noticeEffect(fmt.Sprintf("Starting %d minute break.", minutes)))
	}
	if m.settings.Ambient {
		effects = append(effects, Effect{Kind: EffectStartAmbient})
	}
	return effects, nil
}

// StartNext starts the interval that would follow the current one.
func (m *Machine) StartNext(in Input) []Effect {
	effects, _ := m.Start(in, NextMode(m.state.Mode, m.state.PomosSinceStart, m.settings.LongBreakInterval))
	return effects
}

// Quit resets the machine to idle. A work interval that has not run out is
// logged as quit early first, with the time it actually ran. A work interval
// parked by auto-stop never ran and logs nothing.
func (m *Machine) Quit(in Input) []Effect {
	var effects []Effect
	if m.settings.Logging && m.state.Mode == ModeWork && !m.state.AutoPaused && !m.elapsed(in.Now) {
		effects = append(effects, logEffect(LogRequest{
			Kind:        LogWorkQuitEarly,
			At:          in.Now,
			Duration:    m.worked(in.Now),
			HasDuration: true,
			NoteLink:    m.noteLink(),
		}), recomputeEffect(in.Now))
	}
	m.state = State{}
	return append(effects, Effect{Kind: EffectStopAmbient}, noticeEffect("Quitting pomodoro timer."))
}

func (m *Machine) elapsed(now time.Time) bool {
	if m.state.Paused {
		return m.state.Remaining <= 0
	}
	return !now.Before(m.state.EndTime)
}

// worked is the running time of the current interval, excluding pauses.
func (m *Machine) worked(now time.Time) time.Duration {
	if m.state.Paused {
		return m.state.Active
	}
	return m.state.Active + nonNegative(now.Sub(m.state.StartTime))
}

func (m *Machine) park(next Mode, now time.Time) {
	length := m.settings.DurationOf(next)
	m.state.Mode = next
	m.state.StartTime = now
	m.state.EndTime = now.Add(length)
	m.state.Remaining = length
	m.state.Paused = true
	m.state.AutoPaused = true
	m.state.Active = 0
	m.state.CyclesSinceAutoStop = 0
	m.markSessionStart(now)
}

func (m *Machine) markSessionStart(now time.Time) {
	if m.state.Mode == ModeWork {
		m.state.WorkSessionStart = now
		m.state.BreakSessionStart = time.Time{}
		return
	}
	m.state.BreakSessionStart = now
	m.state.WorkSessionStart = time.Time{}
}

// captureNote keeps the previous reference when nothing is open.
func (m *Machine) captureNote(in Input) {
	if !m.settings.LogActiveNote || in.ActiveNote == nil {
		return
	}
	if note := in.ActiveNote(); note != "" {
		m.state.ActiveNote = note
	}
}

func (m *Machine) noteLink() string {
	if !m.settings.LogActiveNote {
		return ""
	}
	return m.state.ActiveNote
}

func (m *Machine) startEntry(now time.Time) LogRequest {
	kind := LogBreakStart
	if m.state.Mode == ModeWork {
		kind = LogWorkStart
	}
	return LogRequest{Kind: kind, At: now, NoteLink: m.noteLink()}
}

func (m *Machine) completionEntry(completed Mode, now time.Time) LogRequest {
	req := LogRequest{At: now, NoteLink: m.noteLink()}
	if completed == ModeWork {
		req.Kind = LogWorkComplete
		req.HasDuration = true
		if m.state.WorkSessionStart.IsZero() {
			req.Duration = m.settings.Work
		} else {
			req.Duration = nonNegative(now.Sub(m.state.WorkSessionStart))
		}
		return req
	}
	req.Kind = LogBreakComplete
	if !m.state.BreakSessionStart.IsZero() {
		req.Duration = nonNegative(now.Sub(m.state.BreakSessionStart))
		req.HasDuration = true
	}
	return req
}

func (m *Machine) notificationTitle() string {
	if m.settings.Emoji {
		return "Pomodoro " + workEmoji
	}
	return "Pomodoro"
}

func (m *Machine) completionMessage(completed Mode) string {
	if completed == ModeWork {
		if m.settings.Emoji {
			return "End of the pomodoro, time to take a break " + breakEmoji
		}
		return "End of the pomodoro, time to take a break"
	}
	if m.settings.Emoji {
		return "End of the break, time for the next pomodoro " + workEmoji
	}
	return "End of the break, time for the next pomodoro"
}

func ceilSecond(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return (d + time.Second - 1).Truncate(time.Second)
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
