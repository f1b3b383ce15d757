// Package timeutil provides calendar helpers used for streaks, activity
// rollups and leaderboard windows. All calendar math happens in a single
// platform location (UTC unless configured otherwise).
package timeutil

import (
	"sync"
	"time"
)

var (
	locMu    sync.RWMutex
	location = time.UTC
)

// SetLocation sets the location used for day boundaries.
func SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
}

// Location returns the location used for day boundaries.
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return location
}

// Clock abstracts the current time so handlers can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time in the platform location.
func (SystemClock) Now() time.Time {
	return time.Now().In(Location())
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.T
}

// Now returns the current time in the platform location.
func Now() time.Time {
	return SystemClock{}.Now()
}

// Date creates midnight of the given date in the platform location.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, Location())
}

// StartOfDay returns 00:00:00 of t's day.
func StartOfDay(t time.Time) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location())
}

// DaysAgo returns the start of the day n days before t.
func DaysAgo(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, -n)
}

// IsSameDay checks if two times fall on the same calendar day.
func IsSameDay(t1, t2 time.Time) bool {
	return StartOfDay(t1).Equal(StartOfDay(t2))
}

// DaysBetween returns the signed number of calendar days from t1 to t2.
// Positive when t2 is later.
func DaysBetween(t1, t2 time.Time) int {
	a := StartOfDay(t1)
	b := StartOfDay(t2)
	// AddDate-based midnights can differ by an hour across DST changes.
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format(time.DateOnly)
}

// ParseDate parses YYYY-MM-DD in the platform location.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, Location())
}
