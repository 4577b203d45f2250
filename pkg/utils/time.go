package utils

import (
	"strconv"
	"time"
)

// DateLayout is how entry dates are shown to the user
const DateLayout = "Mon, Jan 2 2006 15:04"

// FormatDate formats a timestamp for display; a zero time reads "unknown date"
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format(DateLayout)
}

// ParseTimestamp accepts RFC3339 (with or without fractional seconds) or
// unix milliseconds, which is what older exports used
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// FormatTimestamp is the inverse of ParseTimestamp
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
