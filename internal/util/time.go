package util

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDueDate parses a due date given as YYYY-MM-DD or RFC 3339.
// Dates without a time are taken as midnight UTC.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC 3339 timestamp, got %q", s)
	}
	return t.UTC(), nil
}

// FormatDate formats a timestamp as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTime formats a time in a human-readable way.
func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
