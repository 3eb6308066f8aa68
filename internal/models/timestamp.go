package models

import (
	"errors"
	"strings"
	"time"
)

// ErrBadTimestamp is returned by ParseTimestamp for unrecognised input.
var ErrBadTimestamp = errors.New("invalid date")

// accepted layouts, most specific first; the last three are what HTML
// date/datetime-local inputs send
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses s in one of the accepted layouts. Values without a
// zone are taken as UTC. The result is always in UTC and never zero.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.IsZero() {
				return time.Time{}, ErrBadTimestamp
			}
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}
