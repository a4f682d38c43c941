package notifier

import "log/slog"

type SLogNotifier struct {
	Logger *slog.Logger
}

var _ Notifier = &SLogNotifier{}

func (s SLogNotifier) Notify(event Event, text string) {
	s.Logger.Info(event.String(), "text", text)
}
