// Package dst determines whether daylight saving time is in effect, using the fixed EU rule:
// summer time starts on the last Sunday of March at 02:00 and ends on the last Sunday of October at 03:00.
package dst

import "time"

// IsActive reports whether summer time is in effect at t. Only the calendar fields of t are used; its location is ignored.
func IsActive(t time.Time) bool {
	year, month, day := t.Date()
	hour := t.Hour()

	switch {
	case month > time.March && month < time.October:
		return true
	case month == time.March:
		lastSunday := LastSunday(year, time.March)
		return day > lastSunday || (day == lastSunday && hour >= 2)
	case month == time.October:
		lastSunday := LastSunday(year, time.October)
		return day < lastSunday || (day == lastSunday && hour < 3)
	default:
		return false
	}
}

// LastSunday returns the day of the month of the last Sunday in the given month.
func LastSunday(year int, month time.Month) int {
	day := min(31, daysIn(year, month))
	for time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday() != time.Sunday {
		day--
	}
	return day
}

// daysIn relies on time.Date normalizing day 0 of the next month to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
