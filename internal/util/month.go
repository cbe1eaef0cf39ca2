package util

import "time"

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOnly truncates a time to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last day of a month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return first, last
}

// RecentWindows returns the bounds of the most recent windowDays-day window
// ending at ref and the preceding window of equal length. Each window is
// windowDays calendar days, inclusive of both bounds.
func RecentWindows(ref time.Time, windowDays int) (recentFrom, recentTo, priorFrom, priorTo time.Time) {
	ref = DateOnly(ref)
	recentTo = ref
	recentFrom = ref.AddDate(0, 0, -(windowDays - 1))
	priorTo = recentFrom.AddDate(0, 0, -1)
	priorFrom = priorTo.AddDate(0, 0, -(windowDays - 1))
	return recentFrom, recentTo, priorFrom, priorTo
}
