package domain

import (
	"fmt"
	"time"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeWork
	ModeShortBreak
	ModeLongBreak
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeWork:
		return "work"
	case ModeShortBreak:
		return "short-break"
	case ModeLongBreak:
		return "long-break"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// ParseMode accepts the names produced by String plus the short aliases used
// on the command line.
func ParseMode(raw string) (Mode, bool) {
	switch raw {
	case "work", "pomodoro", "pomo":
		return ModeWork, true
	case "short-break", "short", "break":
		return ModeShortBreak, true
	case "long-break", "long":
		return ModeLongBreak, true
	default:
		return ModeIdle, false
	}
}

type Settings struct {
	Work               time.Duration
	ShortBreak         time.Duration
	LongBreak          time.Duration
	LongBreakInterval  int
	AutoStart          bool
	AutoCycles         int
	Logging            bool
	LogActiveNote      bool
	Emoji              bool
	Sound              bool
	SystemNotification bool
	Ambient            bool
}

func (s Settings) Validate() error {
	if s.Work <= 0 || s.ShortBreak <= 0 || s.LongBreak <= 0 {
		return fmt.Errorf("interval durations must be positive")
	}
	if s.LongBreakInterval < 1 {
		return fmt.Errorf("long break interval must be at least 1, got %d", s.LongBreakInterval)
	}
	if s.AutoCycles < 0 {
		return fmt.Errorf("auto cycles must not be negative, got %d", s.AutoCycles)
	}
	return nil
}

// DurationOf panics for ModeIdle: an idle timer has no interval length and
// asking for one is a caller bug.
func (s Settings) DurationOf(mode Mode) time.Duration {
	switch mode {
	case ModeWork:
		return s.Work
	case ModeShortBreak:
		return s.ShortBreak
	case ModeLongBreak:
		return s.LongBreak
	default:
		panic(fmt.Sprintf("timer: no duration for %s", mode))
	}
}

// NextMode picks the interval that follows current. completedWork is the
// number of work intervals finished so far, including current when current is
// ModeWork.
func NextMode(current Mode, completedWork, longBreakInterval int) Mode {
	if current != ModeWork {
		return ModeWork
	}
	if longBreakInterval > 0 && completedWork > 0 && completedWork%longBreakInterval == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}
