package clock

import (
	"fmt"
	"github.com/clambin/alarmclock/internal/dst"
	"github.com/clambin/alarmclock/internal/settings"
	"time"
)

// Components is a decomposed time of day, as shown on the display.
//
// Weekday uses the same convention as settings.Weekdays: Monday is 0, Sunday is 6.
type Components struct {
	Year    int
	Month   int
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday int
}

// WeekdayIndex converts a time.Weekday (Sunday is 0) to a settings.Weekdays index (Monday is 0).
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Offset returns the UTC offset for t: the summer offset while summer time is active, the winter offset otherwise.
func Offset(s settings.Settings, t time.Time) time.Duration {
	hours := s.WinterOffsetHours
	if dst.IsActive(t) {
		hours = s.SummerOffsetHours
	}
	return time.Duration(hours) * time.Hour
}

// Formatter turns a clock reading into the string shown on the display.
type Formatter struct {
	// ApplyOffset adds the summer/winter offset to the clock reading. If false, the offset is determined,
	// but the unadjusted reading is returned, as the device firmware does.
	ApplyOffset bool
}

// Format returns the display string (DD-MM-YYYY HH:MM) and time components for the clock reading now.
func (f Formatter) Format(s settings.Settings, now time.Time) (string, Components) {
	adjusted := now.Add(Offset(s, now))
	if f.ApplyOffset {
		now = adjusted
	}
	c := Components{
		Year:    now.Year(),
		Month:   int(now.Month()),
		Day:     now.Day(),
		Hour:    now.Hour(),
		Minute:  now.Minute(),
		Second:  now.Second(),
		Weekday: WeekdayIndex(now.Weekday()),
	}
	return fmt.Sprintf("%02d-%02d-%d %02d:%02d", c.Day, c.Month, c.Year, c.Hour, c.Minute), c
}
