package notifier

type Event int

const (
	AlarmRinging Event = iota
	AlarmSilenced
	SettingsSaved
)

func (e Event) String() string {
	switch e {
	case AlarmRinging:
		return "alarm ringing"
	case AlarmSilenced:
		return "alarm silenced"
	case SettingsSaved:
		return "settings saved"
	default:
		return "unknown"
	}
}

type Notifier interface {
	Notify(event Event, text string)
}

type Notifiers []Notifier

func (n Notifiers) Notify(event Event, text string) {
	for _, l := range n {
		l.Notify(event, text)
	}
}
