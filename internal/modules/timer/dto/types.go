package dto

import "time"

type StartInput struct {
	Mode string
}

// Status is the polled view of the timer. Warnings carries side-effect
// failures from the last operation; the transition itself still happened.
type Status struct {
	Mode                string
	Running             bool
	Paused              bool
	AutoPaused          bool
	Display             string
	Remaining           time.Duration
	EndsAt              time.Time
	PomosSinceStart     int
	CyclesSinceAutoStop int
	ActiveNote          string
	Notice              string
	Warnings            []string
}

type SettingsOutput struct {
	Work              time.Duration
	ShortBreak        time.Duration
	LongBreak         time.Duration
	LongBreakInterval int
	AutoStart         bool
	AutoCycles        int
	Logging           bool
}
