package dateutil

import (
	"fmt"
	"time"
)

// ISODate is the storage format for calendar dates. Dates have no
// time-of-day component anywhere in the system.
const ISODate = "2006-01-02"

// Today returns the local wall-clock date as an ISO YYYY-MM-DD string.
func Today() string {
	return time.Now().Format(ISODate)
}

// ParseLocal parses an ISO date string into a local-midnight time.Time.
// Parsing in the local zone keeps calendar arithmetic on the same day the
// user sees; parsing as UTC shifts dates by a day for zones west of it.
func ParseLocal(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ISODate, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Format renders a time as an ISO date string, dropping any time of day.
func Format(t time.Time) string {
	return t.Format(ISODate)
}

// DayMonth renders an ISO date string as DD.MM for display labels.
// Returns the input unchanged if it does not parse.
func DayMonth(iso string) string {
	t, err := ParseLocal(iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01")
}

// AddDays returns the ISO date n calendar days after the given ISO date.
func AddDays(iso string, n int) (string, error) {
	t, err := ParseLocal(iso)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, n)), nil
}

// SpanEnd computes the inclusive end date of a span of days starting at
// start: a 1-day span ends on the start day itself. days below 1 count
// as 1.
func SpanEnd(start string, days int) (string, error) {
	if days < 1 {
		days = 1
	}
	return AddDays(start, days-1)
}

// Before reports whether ISO date a falls strictly before b.
func Before(a, b string) bool {
	ta, err := ParseLocal(a)
	if err != nil {
		return false
	}
	tb, err := ParseLocal(b)
	if err != nil {
		return false
	}
	return ta.Before(tb)
}
