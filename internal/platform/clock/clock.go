package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports local wall time. Day sections in the log are keyed by
// the local calendar date, so this must not be normalized to UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
