package dto

import "time"

// Entry kinds accepted by LogEntry.
const (
	KindWorkStart     = "work-start"
	KindWorkComplete  = "work-complete"
	KindWorkQuitEarly = "work-quit-early"
	KindBreakStart    = "break-start"
	KindBreakComplete = "break-complete"
)

type EntryInput struct {
	Kind        string
	At          time.Time
	Duration    time.Duration
	HasDuration bool
	NoteLink    string
}

type AppendInput struct {
	Text string
}

type AppendOutput struct {
	Path    string
	Line    string
	Created bool
}

type SummaryOutput struct {
	Path     string
	Day      string
	Found    bool
	Heading  string
	Work     time.Duration
	Break    time.Duration
	Total    time.Duration
	Problems []string
}

type DayOutput struct {
	Day     string
	Weekday string
	Heading string
	Work    time.Duration
	Break   time.Duration
	Total   time.Duration
	Entries int
	Body    string
}

type TodayOutput struct {
	Path  string
	Found bool
	Day   DayOutput
}

type DocumentOutput struct {
	Path    string
	Exists  bool
	Content string
}

type StatsInput struct {
	Limit int
}

type StatsOutput struct {
	Days  []DayOutput
	Work  time.Duration
	Break time.Duration
	Total time.Duration
}

type ReindexOutput struct {
	Path string
	Days int
}
