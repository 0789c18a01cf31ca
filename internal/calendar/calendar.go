// Package calendar handles the date-only values used for review scheduling.
// Dates are time.Time values at midnight in the local zone; the stored form
// is YYYY-MM-DD.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the persisted date format.
const Layout = "2006-01-02"

// Date truncates t to midnight of its calendar day in t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns the calendar day of now in the local zone.
func Today(now time.Time) time.Time {
	return Date(now.In(time.Local))
}

// AddDays moves d by n calendar days. Safe across DST changes.
func AddDays(d time.Time, n int) time.Time {
	return Date(d).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = Date(a), Date(b)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// Format renders d as YYYY-MM-DD.
func Format(d time.Time) string {
	return d.Format(Layout)
}

// Parse reads a YYYY-MM-DD date in the local zone. Anything else, including
// trailing time components, is rejected.
func Parse(s string) (time.Time, error) {
	d, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// SameISOWeek reports whether a and b fall in the same ISO week.
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}
