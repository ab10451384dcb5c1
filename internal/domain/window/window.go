// Package window holds email matching and the reporting periods derived from
// a single "now" per request.
package window

import (
	"strings"
	"time"
)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail compares a record email against an already normalized target.
// An empty record email never matches.
func SameEmail(recordEmail, target string) bool {
	if recordEmail == "" || target == "" {
		return false
	}
	return NormalizeEmail(recordEmail) == target
}

// Windows are the reporting periods of one request. They are computed once
// and shared by every aggregation so they cannot drift mid-computation.
type Windows struct {
	Now        time.Time
	MonthStart time.Time
	WeekStart  time.Time
}

// At computes the windows for now, in now's location. Weeks start on Sunday.
func At(now time.Time) Windows {
	y, m, d := now.Date()
	loc := now.Location()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return Windows{
		Now:        now,
		MonthStart: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		WeekStart:  dayStart.AddDate(0, 0, -int(now.Weekday())),
	}
}

// MonthToDate reports whether t falls in [MonthStart, Now]. Invalid (zero)
// times are never inside a window.
func (w Windows) MonthToDate(t time.Time) bool {
	return within(t, w.MonthStart, w.Now)
}

// WeekToDate reports whether t falls in [WeekStart, Now].
func (w Windows) WeekToDate(t time.Time) bool {
	return within(t, w.WeekStart, w.Now)
}

// MonthsBack returns the first instant of the month n months before Now's month.
func (w Windows) MonthsBack(n int) time.Time {
	return w.MonthStart.AddDate(0, -n, 0)
}

// Since reports whether t falls in [start, Now].
func (w Windows) Since(start, t time.Time) bool {
	return within(t, start, w.Now)
}

func within(t, start, end time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(start) && !t.After(end)
}
