package booking

import "time"

// Window is the configured day range a follow-up must fall into, counted
// from its primary appointment in whole calendar days.
type Window struct {
	MinDays int
	MaxDays int
}

func (w Window) Contains(days int) bool {
	return days >= w.MinDays && days <= w.MaxDays
}

// DaysBetween returns the whole-day calendar distance from primary to
// followup. Time of day is ignored: both timestamps are truncated to their
// calendar date before subtracting, so a primary at 23:00 and a follow-up
// at 08:00 thirty days later still count as 30 days apart.
func DaysBetween(primary, followup time.Time) int {
	return int(dateOnly(followup).Sub(dateOnly(primary)).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
