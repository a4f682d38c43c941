package configserver

import (
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/clambin/go-common/set"
	"maps"
	"slices"
	"strconv"
	"strings"
)

const (
	defaultSummerOffset = 2
	defaultWinterOffset = 1
)

// dayFields are the form fields of the weekday checkboxes, Monday first.
var dayFields = [7]string{"ma", "di", "wo", "do", "vr", "za", "zo"}

// urlDecode decodes a form-encoded value: '+' becomes a space and %XX the byte with that hex value.
// A '%' that is not followed by two hex digits is kept as is.
func urlDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// parseForm splits a form-encoded body into its fields. Pairs without '=' are skipped.
func parseForm(body string) map[string]string {
	form := make(map[string]string)
	for _, pair := range strings.Split(body, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		form[urlDecode(key)] = urlDecode(value)
	}
	return form
}

// settingsFromForm builds the complete settings record from a submitted form. Missing or malformed fields
// get their default value. A weekday is active if its checkbox field is present.
func settingsFromForm(form map[string]string) settings.Settings {
	s := settings.Settings{
		WifiName:          form["wifi-naam"],
		WifiPassword:      form["wifi-wachtwoord"],
		SummerOffsetHours: intField(form, "zomeruur", defaultSummerOffset),
		WinterOffsetHours: intField(form, "winteruur", defaultWinterOffset),
		Alarm:             settings.DefaultAlarm,
	}
	if value, ok := form["alarm"]; ok {
		if alarm, err := settings.ParseAlarmTime(value); err == nil {
			s.Alarm = alarm
		}
	}

	fields := set.New(slices.Collect(maps.Keys(form))...)
	for i, day := range dayFields {
		s.ActiveWeekdays[i] = fields.Contains(day)
	}
	return s
}

func intField(form map[string]string, key string, fallback int) int {
	value, ok := form[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
