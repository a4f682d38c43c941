package configserver

import (
	"bytes"
	"embed"
	"fmt"
	"github.com/clambin/alarmclock/internal/settings"
	"html/template"
)

//go:embed templates/index.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

var dayLabels = [7]string{"Maandag", "Dinsdag", "Woensdag", "Donderdag", "Vrijdag", "Zaterdag", "Zondag"}

type day struct {
	Field   string
	Label   string
	Checked bool
}

type page struct {
	WifiName          string
	WifiPassword      string
	SummerOffsetHours int
	WinterOffsetHours int
	Alarm             string
	Days              []day
}

func renderPage(s settings.Settings) ([]byte, error) {
	p := page{
		WifiName:          s.WifiName,
		WifiPassword:      s.WifiPassword,
		SummerOffsetHours: s.SummerOffsetHours,
		WinterOffsetHours: s.WinterOffsetHours,
		Alarm:             s.Alarm.String(),
		Days:              make([]day, len(dayFields)),
	}
	for i := range dayFields {
		p.Days[i] = day{Field: dayFields[i], Label: dayLabels[i], Checked: s.ActiveWeekdays[i]}
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
