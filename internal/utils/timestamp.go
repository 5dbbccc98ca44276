package utils

import (
	"time"

	"github.com/dustin/go-humanize"
)

// timestampLayouts are the creation time formats the box service is known to send
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a server timestamp in any known layout
func ParseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatCreated renders a server timestamp relative to now, e.g. "3 days ago".
// Unparseable values are returned unchanged.
func FormatCreated(raw string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return raw
	}
	return humanize.Time(t)
}
