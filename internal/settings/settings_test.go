package settings_test

import (
	"encoding/json"
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"testing"
)

func TestParseAlarmTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    settings.AlarmTime
		wantErr assert.ErrorAssertionFunc
	}{
		{name: "short", input: "7:30", want: settings.AlarmTime{Hour: 7, Minute: 30}, wantErr: assert.NoError},
		{name: "padded", input: "07:05", want: settings.AlarmTime{Hour: 7, Minute: 5}, wantErr: assert.NoError},
		{name: "midnight", input: "0:0", want: settings.AlarmTime{}, wantErr: assert.NoError},
		{name: "last minute", input: "23:59", want: settings.AlarmTime{Hour: 23, Minute: 59}, wantErr: assert.NoError},
		{name: "hour out of range", input: "24:00", want: settings.AlarmTime{Hour: 24}, wantErr: assert.Error},
		{name: "both out of range", input: "25:99", want: settings.AlarmTime{Hour: 25, Minute: 99}, wantErr: assert.Error},
		{name: "negative", input: "-1:00", want: settings.AlarmTime{Hour: -1}, wantErr: assert.Error},
		{name: "no separator", input: "730", wantErr: assert.Error},
		{name: "not a number", input: "aa:30", wantErr: assert.Error},
		{name: "empty", input: "", wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, err := settings.ParseAlarmTime(tt.input)
			tt.wantErr(t, err)
			if err == nil {
				assert.Equal(t, tt.want, a)
			} else {
				assert.ErrorIs(t, err, settings.ErrInvalidAlarm)
			}
		})
	}
}

func TestSettings_JSON(t *testing.T) {
	s := settings.Settings{
		WifiName:          "home",
		WifiPassword:      "secret",
		SummerOffsetHours: 2,
		WinterOffsetHours: 1,
		Alarm:             settings.AlarmTime{Hour: 6, Minute: 45},
		ActiveWeekdays:    settings.Weekdays{true, false, true, false, true, false, true},
	}
	body, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
  "WIFI_NAAM": "home",
  "WIFI_WACHTWOORD": "secret",
  "ZOMERUUR": 2,
  "WINTERUUR": 1,
  "ALARM": [6, 45],
  "DAGEN": [true, false, true, false, true, false, true]
}`, string(body))

	var s2 settings.Settings
	require.NoError(t, json.Unmarshal(body, &s2))
	assert.Equal(t, s, s2)
}

func TestSettings_JSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "short weekdays", input: `{"ALARM":[7,0],"DAGEN":[true,true]}`},
		{name: "long weekdays", input: `{"ALARM":[7,0],"DAGEN":[true,true,true,true,true,true,true,true]}`},
		{name: "alarm out of range", input: `{"ALARM":[24,0],"DAGEN":[true,true,true,true,true,true,true]}`},
		{name: "alarm too short", input: `{"ALARM":[7],"DAGEN":[true,true,true,true,true,true,true]}`},
		{name: "alarm not a list", input: `{"ALARM":"7:00"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var s settings.Settings
			assert.Error(t, json.Unmarshal([]byte(tt.input), &s))
		})
	}
}

func TestSettings_YAML(t *testing.T) {
	s := settings.Default()
	s.WifiName = "home"
	body, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `wifiName: home
wifiPassword: ""
summerOffsetHours: 2
winterOffsetHours: 1
alarm: "07:00"
activeWeekdays:
    - Mon
    - Tue
    - Wed
    - Thu
    - Fri
`, string(body))

	var s2 settings.Settings
	require.NoError(t, yaml.Unmarshal(body, &s2))
	assert.Equal(t, s, s2)

	assert.Error(t, yaml.Unmarshal([]byte("activeWeekdays: [Mon, Funday]"), &s2))
	assert.Error(t, yaml.Unmarshal([]byte("alarm: 25:00"), &s2))
}

func TestSettings_Redacted(t *testing.T) {
	s := settings.Default()
	assert.Empty(t, s.Redacted().WifiPassword)
	s.WifiPassword = "secret"
	assert.Equal(t, "********", s.Redacted().WifiPassword)
	assert.Equal(t, "secret", s.WifiPassword)
}

func TestAlarmTime_SecondsAfterMidnight(t *testing.T) {
	assert.Equal(t, 0, settings.AlarmTime{}.SecondsAfterMidnight())
	assert.Equal(t, 7*3600+30*60, settings.AlarmTime{Hour: 7, Minute: 30}.SecondsAfterMidnight())
}

func TestWeekdays_Names(t *testing.T) {
	assert.Equal(t, []string{"Mon", "Sun"}, settings.Weekdays{true, false, false, false, false, false, true}.Names())
	assert.Empty(t, settings.Weekdays{}.Names())
}
