// Package model defines the records shared by the pricing pipeline and the meal log.
package model

import (
	"fmt"
	"time"
)

// DayLayout is the wire and storage format for calendar dates.
const DayLayout = "2006-01-02"

// Day truncates t to its calendar date at midnight UTC.
// The wall-clock date of t is kept, so a late-evening local time stays on the same day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return Day(t).Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
