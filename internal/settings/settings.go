package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"strconv"
	"strings"
	"time"
)

// Settings is the complete configuration of the alarm clock. It is always replaced as a whole.
//
// The JSON field names match the settings file written by the device firmware, so existing files can be reused.
type Settings struct {
	WifiName          string    `json:"WIFI_NAAM" yaml:"wifiName"`
	WifiPassword      string    `json:"WIFI_WACHTWOORD" yaml:"wifiPassword"`
	SummerOffsetHours int       `json:"ZOMERUUR" yaml:"summerOffsetHours"`
	WinterOffsetHours int       `json:"WINTERUUR" yaml:"winterOffsetHours"`
	Alarm             AlarmTime `json:"ALARM" yaml:"alarm"`
	ActiveWeekdays    Weekdays  `json:"DAGEN" yaml:"activeWeekdays"`
}

// Default returns the settings used when no (valid) settings file is found.
func Default() Settings {
	return Settings{
		SummerOffsetHours: 2,
		WinterOffsetHours: 1,
		Alarm:             DefaultAlarm,
		ActiveWeekdays:    Weekdays{true, true, true, true, true, false, false},
	}
}

func (s Settings) Validate() error {
	return s.Alarm.Validate()
}

// Redacted returns a copy of the settings with the Wi-Fi password masked.
func (s Settings) Redacted() Settings {
	if s.WifiPassword != "" {
		s.WifiPassword = "********"
	}
	return s
}

var DefaultAlarm = AlarmTime{Hour: 7, Minute: 0}

var ErrInvalidAlarm = errors.New("invalid alarm time")

// AlarmTime is the time of day at which the alarm goes off.
type AlarmTime struct {
	Hour   int
	Minute int
}

// ParseAlarmTime parses an alarm time in H:M format. Hour must be in [0,24), minute in [0,60).
func ParseAlarmTime(s string) (AlarmTime, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return AlarmTime{}, fmt.Errorf("%w: %q", ErrInvalidAlarm, s)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return AlarmTime{}, fmt.Errorf("%w: hour: %w", ErrInvalidAlarm, err)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return AlarmTime{}, fmt.Errorf("%w: minute: %w", ErrInvalidAlarm, err)
	}
	a := AlarmTime{Hour: hour, Minute: minute}
	return a, a.Validate()
}

func (a AlarmTime) Validate() error {
	if a.Hour < 0 || a.Hour > 23 || a.Minute < 0 || a.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidAlarm, a.Hour, a.Minute)
	}
	return nil
}

func (a AlarmTime) String() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// SecondsAfterMidnight returns the alarm time as an offset from the start of the day.
func (a AlarmTime) SecondsAfterMidnight() int {
	return int((time.Duration(a.Hour)*time.Hour + time.Duration(a.Minute)*time.Minute).Seconds())
}

func (a AlarmTime) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{a.Hour, a.Minute})
}

func (a *AlarmTime) UnmarshalJSON(data []byte) error {
	var fields []int
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAlarm, err)
	}
	if len(fields) != 2 {
		return fmt.Errorf("%w: expected [hour, minute], got %d fields", ErrInvalidAlarm, len(fields))
	}
	v := AlarmTime{Hour: fields[0], Minute: fields[1]}
	if err := v.Validate(); err != nil {
		return err
	}
	*a = v
	return nil
}

func (a AlarmTime) MarshalYAML() (any, error) {
	return a.String(), nil
}

func (a *AlarmTime) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseAlarmTime(value.Value)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Weekdays records on which days the alarm is active. Index 0 is Monday, index 6 is Sunday.
type Weekdays [7]bool

// DayNames holds the short name of each day, in Weekdays order.
var DayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Names returns the names of the active days, in Weekdays order.
func (w Weekdays) Names() []string {
	names := make([]string, 0, len(w))
	for i, active := range w {
		if active {
			names = append(names, DayNames[i])
		}
	}
	return names
}

func (w *Weekdays) UnmarshalJSON(data []byte) error {
	var days []bool
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	if len(days) != len(w) {
		return fmt.Errorf("expected %d weekdays, got %d", len(w), len(days))
	}
	copy(w[:], days)
	return nil
}

func (w Weekdays) MarshalYAML() (any, error) {
	return w.Names(), nil
}

func (w *Weekdays) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	var days Weekdays
	for _, name := range names {
		i := dayIndex(name)
		if i < 0 {
			return fmt.Errorf("invalid weekday: %q", name)
		}
		days[i] = true
	}
	*w = days
	return nil
}

func dayIndex(name string) int {
	for i, dayName := range DayNames {
		if strings.EqualFold(dayName, name) {
			return i
		}
	}
	return -1
}
