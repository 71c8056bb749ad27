// Package duration renders and parses the clock-style durations used in the
// countdown display and in log entries: mm:ss below one hour, HH:mm:ss above.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "mdpomo/internal/platform/errors"
)

// Format renders d truncated to whole seconds. Negative values render as 00:00.
// Hours are not wrapped at 24.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Parse reads "mm:ss" or "HH:mm:ss". Any other shape, a non-numeric field, a
// minutes/seconds field of 60 or more, or a leading field too large for a
// time.Duration is an error wrapping apperrors.ErrMalformedDuration.
func Parse(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q has %d fields", apperrors.ErrMalformedDuration, s, len(parts))
	}
	values := make([]int64, len(parts))
	for i, part := range parts {
		if part == "" {
			return 0, fmt.Errorf("%w: %q has an empty field", apperrors.ErrMalformedDuration, s)
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q field %q is not a number", apperrors.ErrMalformedDuration, s, part)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("%w: %q field %q out of range", apperrors.ErrMalformedDuration, s, part)
		}
		values[i] = v
	}
	lead := time.Minute
	if len(values) == 3 {
		lead = time.Hour
	}
	// The trailing fields add less than an hour.
	if values[0] > (math.MaxInt64-int64(time.Hour))/int64(lead) {
		return 0, fmt.Errorf("%w: %q field %q out of range", apperrors.ErrMalformedDuration, s, parts[0])
	}
	var hours, minutes, seconds int64
	if len(values) == 3 {
		hours, minutes, seconds = values[0], values[1], values[2]
	} else {
		minutes, seconds = values[0], values[1]
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}

// ParseOrZero is Parse with the error folded into a zero result.
func ParseOrZero(s string) time.Duration {
	d, err := Parse(s)
	if err != nil {
		return 0
	}
	return d
}
