package domain

import "time"

type EffectKind int

const (
	EffectLog EffectKind = iota + 1
	EffectRecompute
	EffectPlaySound
	EffectStartAmbient
	EffectStopAmbient
	EffectNotice
	EffectSystemNotification
)

func (k EffectKind) String() string {
	switch k {
	case EffectLog:
		return "log"
	case EffectRecompute:
		return "recompute"
	case EffectPlaySound:
		return "play-sound"
	case EffectStartAmbient:
		return "start-ambient"
	case EffectStopAmbient:
		return "stop-ambient"
	case EffectNotice:
		return "notice"
	case EffectSystemNotification:
		return "system-notification"
	default:
		return "unknown"
	}
}

type LogKind int

const (
	LogWorkStart LogKind = iota + 1
	LogWorkComplete
	LogWorkQuitEarly
	LogBreakStart
	LogBreakComplete
)

func (k LogKind) String() string {
	switch k {
	case LogWorkStart:
		return "work-start"
	case LogWorkComplete:
		return "work-complete"
	case LogWorkQuitEarly:
		return "work-quit-early"
	case LogBreakStart:
		return "break-start"
	case LogBreakComplete:
		return "break-complete"
	default:
		return "unknown"
	}
}

// LogRequest asks the log aggregator to record one entry. Duration is only
// meaningful when HasDuration is set.
type LogRequest struct {
	Kind        LogKind
	At          time.Time
	Duration    time.Duration
	HasDuration bool
	NoteLink    string
}

// Effect is a side effect requested by a transition. The machine never
// performs effects itself.
type Effect struct {
	Kind    EffectKind
	Log     LogRequest
	Title   string
	Message string
	// Day selects the log section a recompute targets.
	Day time.Time
}

func logEffect(req LogRequest) Effect {
	return Effect{Kind: EffectLog, Log: req}
}

func recomputeEffect(day time.Time) Effect {
	return Effect{Kind: EffectRecompute, Day: day}
}

func noticeEffect(message string) Effect {
	return Effect{Kind: EffectNotice, Message: message}
}
