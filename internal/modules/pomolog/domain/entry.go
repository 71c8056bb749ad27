package domain

import (
	"fmt"
	"strings"
	"time"

	"mdpomo/internal/platform/duration"
	apperrors "mdpomo/internal/platform/errors"
)

type EntryKind int

const (
	EntryNone EntryKind = iota
	EntryWorkStart
	EntryWorkComplete
	EntryWorkQuitEarly
	EntryBreakStart
	EntryBreakComplete
)

const (
	WorkTag  = "🍅"
	BreakTag = "🏖"
	SumTag   = "Σ"

	variationSelector = "\uFE0F"
)

var entryTags = map[EntryKind]string{
	EntryWorkStart:     WorkTag + " Start",
	EntryWorkComplete:  WorkTag,
	EntryWorkQuitEarly: WorkTag + " Quit Early",
	EntryBreakStart:    BreakTag + " Start",
	EntryBreakComplete: BreakTag,
}

var kindNames = map[string]EntryKind{
	"work-start":      EntryWorkStart,
	"work-complete":   EntryWorkComplete,
	"work-quit-early": EntryWorkQuitEarly,
	"break-start":     EntryBreakStart,
	"break-complete":  EntryBreakComplete,
}

func ParseEntryKind(raw string) (EntryKind, error) {
	kind, ok := kindNames[raw]
	if !ok {
		return EntryNone, fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrInvalidInput, raw)
	}
	return kind, nil
}

func (k EntryKind) Tag() string { return entryTags[k] }

// CountsAsWork reports whether the entry's duration belongs to work time.
func (k EntryKind) CountsAsWork() bool {
	return k == EntryWorkComplete || k == EntryWorkQuitEarly
}

func (k EntryKind) CountsAsBreak() bool {
	return k == EntryBreakComplete
}

// Entry is one log line.
type Entry struct {
	Kind        EntryKind
	At          time.Time
	Duration    time.Duration
	HasDuration bool
	NoteLink    string
}

// Render produces "[tag] HH:mm — mm:ss [[note]]". The duration and link parts
// are omitted when absent.
func (e Entry) Render() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(e.Kind.Tag())
	b.WriteString("] ")
	b.WriteString(e.At.Format("15:04"))
	if e.HasDuration && e.Duration >= 0 {
		b.WriteString(" — ")
		b.WriteString(duration.Format(e.Duration))
	}
	if e.NoteLink != "" {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(e.NoteLink, `\n`, "\n"))
	}
	return b.String()
}

// ClassifyLine identifies an entry by its bracketed tag. Lines that are not
// entries return EntryNone. A leading list marker is tolerated.
func ClassifyLine(line string) (EntryKind, string) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "- ")
	if !strings.HasPrefix(trimmed, "[") {
		return EntryNone, ""
	}
	tag, rest, ok := strings.Cut(trimmed[1:], "]")
	if !ok {
		return EntryNone, ""
	}
	tag = strings.TrimSpace(strings.ReplaceAll(tag, variationSelector, ""))
	for kind, want := range entryTags {
		if tag == want {
			return kind, rest
		}
	}
	return EntryNone, ""
}

var separators = []string{"—", "–", "--"}

// DurationToken extracts the duration after the entry separator. found is
// false when the line carries no separator or nothing follows it.
func DurationToken(rest string) (token string, found bool) {
	idx, width := -1, 0
	for _, sep := range separators {
		if i := strings.Index(rest, sep); i >= 0 && (idx < 0 || i < idx) {
			idx, width = i, len(sep)
		}
	}
	if idx < 0 {
		return "", false
	}
	fields := strings.Fields(rest[idx+width:])
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}
