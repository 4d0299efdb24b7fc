package asset

import (
	"fmt"
	"strings"
	"time"
)

const displayLayout = "02/01/2006"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateOnly,
}

// ParseDate parses an ISO-8601 timestamp or calendar date.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("asset: %q is not an ISO-8601 date", v)
}

// NormalizeDate renders t the way acquisition dates are stored and sent.
func NormalizeDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatDate renders an acquisition date as DD/MM/YYYY (UTC calendar day).
// Absent or unparseable values render as the empty string.
func FormatDate(v *string) string {
	if v == nil {
		return ""
	}
	t, err := ParseDate(*v)
	if err != nil {
		return ""
	}
	return t.UTC().Format(displayLayout)
}
