package github

import (
	"regexp"
	"time"
)

// timestampPattern accepts YYYY-MM-DDTHH:MM:SS with an optional fraction and a
// mandatory zone, either Z or a numeric offset.
var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

// ValidTimestamp reports whether s is an ISO-8601 date-time in the shape the
// API returns and names a real instant.
func ValidTimestamp(s string) bool {
	if !timestampPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.RFC3339Nano, s)
	return err == nil
}

// ParseTimestamp validates s and returns the instant it names.
func ParseTimestamp(s string) (time.Time, bool) {
	if !timestampPattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
