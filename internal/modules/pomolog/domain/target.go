package domain

import "time"

// Target is the document a log line goes to. Initial is written when the
// document does not exist yet.
type Target struct {
	Path    string
	Initial string
}

// DayRecord is one projected row of per-day totals.
type DayRecord struct {
	Day       string
	Weekday   string
	Totals    Totals
	Entries   int
	UpdatedAt time.Time
}

func RecordFromSummary(summary Summary, updatedAt time.Time) DayRecord {
	return DayRecord{
		Day:       summary.Day,
		Weekday:   summary.Weekday,
		Totals:    summary.Totals,
		Entries:   summary.Entries,
		UpdatedAt: updatedAt,
	}
}
