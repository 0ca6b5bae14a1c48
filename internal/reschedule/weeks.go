package reschedule

import "time"

// WeekStart returns the Monday 00:00 UTC of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// WeeksBetween returns the whole number of weeks from a to b. Both arguments
// are expected to be week starts, so the division is exact.
func WeeksBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / (24 * 7))
}
