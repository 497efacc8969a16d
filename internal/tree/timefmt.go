package tree

import (
	"fmt"
	"time"
)

// TimeLayout renders timestamps as ISO 8601 in UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t with TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts RFC 3339 with any fractional precision and truncates to
// milliseconds, the precision timestamps are stored with.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC().Truncate(time.Millisecond), nil
}
