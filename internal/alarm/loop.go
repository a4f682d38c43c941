package alarm

import (
	"context"
	"github.com/clambin/alarmclock/internal/clock"
	"github.com/clambin/alarmclock/internal/display"
	"github.com/clambin/alarmclock/internal/hardware"
	"github.com/clambin/alarmclock/internal/notifier"
	"github.com/clambin/alarmclock/internal/pubsub"
	"github.com/clambin/alarmclock/internal/settings"
	"log/slog"
	"time"
)

const (
	// DefaultTick is the time between two iterations of the loop.
	DefaultTick = 10 * time.Millisecond
	// DefaultBacklightTimeout is how long the backlight stays on after the button is pressed.
	DefaultBacklightTimeout = 5 * time.Second

	statusInterval = time.Second
)

type SettingsStore interface {
	Get() settings.Settings
	Subscribe() chan settings.Settings
	Unsubscribe(chan settings.Settings)
}

type Configuration struct {
	Tick             time.Duration
	BacklightTimeout time.Duration
	// Address is shown on the bottom row of the display.
	Address string
}

// Status is published by the Loop whenever the displayed time or the alarm state changes, and at least once a second.
type Status struct {
	Time      string    `json:"time"`
	Alarm     string    `json:"alarm"`
	Ringing   bool      `json:"ringing"`
	Backlight bool      `json:"backlight"`
	LastFired time.Time `json:"lastFired,omitzero"`
	Updated   time.Time `json:"updated"`
}

// Loop runs the clock: it refreshes the display, sounds the alarm at the configured time and handles the button.
//
// Loop polls at a fixed interval. All runtime state is owned by the goroutine calling Run. The only shared state is
// the settings, which the Loop reads as a snapshot on each tick.
type Loop struct {
	*pubsub.Publisher[Status]
	store     SettingsStore
	clock     clock.Clock
	formatter clock.Formatter
	display   display.Display
	button    hardware.Button
	buzzer    hardware.Output
	notifier  notifier.Notifier
	cfg       Configuration
	logger    *slog.Logger
	silence   chan struct{}
	state     state
}

type state struct {
	triggered      bool
	lastFired      minute
	lastFiredAt    time.Time
	pressed        bool
	backlightOffAt time.Time
	lastDisplayed  string
	redraw         bool
	lastStatus     Status
}

type minute struct {
	year, month, day, hour, minute int
}

func minuteOf(c clock.Components) minute {
	return minute{year: c.Year, month: c.Month, day: c.Day, hour: c.Hour, minute: c.Minute}
}

// New returns a Loop. n is called from the loop's goroutine and must not block: use a notifier.Queue for notifiers
// that call remote services.
func New(
	store SettingsStore,
	clk clock.Clock,
	formatter clock.Formatter,
	d display.Display,
	button hardware.Button,
	buzzer hardware.Output,
	n notifier.Notifier,
	cfg Configuration,
	logger *slog.Logger,
) *Loop {
	if cfg.Tick == 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.BacklightTimeout == 0 {
		cfg.BacklightTimeout = DefaultBacklightTimeout
	}
	return &Loop{
		Publisher: pubsub.New[Status](logger.With(slog.String("component", "publisher"))),
		store:     store,
		clock:     clk,
		formatter: formatter,
		display:   d,
		button:    button,
		buzzer:    buzzer,
		notifier:  n,
		cfg:       cfg,
		logger:    logger,
		silence:   make(chan struct{}, 1),
		state:     state{redraw: true},
	}
}

func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("started", slog.Duration("tick", l.cfg.Tick))
	defer l.logger.Debug("stopped")

	ch := l.store.Subscribe()
	defer l.store.Unsubscribe(ch)

	ticker := time.NewTicker(l.cfg.Tick)
	defer ticker.Stop()

	for {
		l.step()
		select {
		case <-ctx.Done():
			l.buzzer.Off()
			return nil
		case <-ch:
			l.state.redraw = true
		case <-ticker.C:
		}
	}
}

// Silence stops a ringing alarm, as if the button had been pressed.
func (l *Loop) Silence() {
	select {
	case l.silence <- struct{}{}:
	default:
	}
}

func (l *Loop) silenced() bool {
	select {
	case <-l.silence:
		return true
	default:
		return false
	}
}

func (l *Loop) step() {
	s := l.store.Get()
	now := l.clock.Now()
	text, c := l.formatter.Format(s, now)

	if l.shouldTrigger(s, c) {
		l.state.triggered = true
		l.state.lastFired = minuteOf(c)
		l.state.lastFiredAt = now
		l.buzzer.On()
		l.logger.Info("alarm triggered", "alarm", s.Alarm.String())
		l.notifier.Notify(notifier.AlarmRinging, s.Alarm.String())
	}

	pressed := l.button.Pressed()
	remote := l.silenced()
	if (pressed && !l.state.pressed) || remote {
		if l.state.triggered {
			l.state.triggered = false
			l.buzzer.Off()
			l.logger.Info("alarm silenced", "remote", remote)
			l.notifier.Notify(notifier.AlarmSilenced, s.Alarm.String())
		}
	}
	if pressed || remote {
		l.display.BacklightOn()
		l.state.backlightOffAt = now.Add(l.cfg.BacklightTimeout)
	}
	l.state.pressed = pressed

	switch {
	case l.state.triggered:
		// strobe
		if l.display.Backlight() {
			l.display.BacklightOff()
		} else {
			l.display.BacklightOn()
		}
	case now.After(l.state.backlightOffAt) && l.display.Backlight():
		l.display.BacklightOff()
	}

	if text != l.state.lastDisplayed || l.state.redraw {
		l.draw(text, s.Alarm)
		l.state.lastDisplayed = text
		l.state.redraw = false
	}

	l.publish(text, s.Alarm, now)
}

func (l *Loop) shouldTrigger(s settings.Settings, c clock.Components) bool {
	return !l.state.triggered &&
		s.ActiveWeekdays[c.Weekday] &&
		c.Hour == s.Alarm.Hour &&
		c.Minute == s.Alarm.Minute &&
		c.Second == 0 &&
		l.state.lastFired != minuteOf(c)
}

func (l *Loop) draw(text string, alarm settings.AlarmTime) {
	l.display.Clear()
	l.display.PutStr(text)
	l.display.MoveTo(0, 2)
	l.display.PutStr("Alarm: " + alarm.String())
	l.display.MoveTo(0, 3)
	l.display.PutStr(l.cfg.Address)
}

func (l *Loop) publish(text string, alarm settings.AlarmTime, now time.Time) {
	last := l.state.lastStatus
	if text == last.Time && alarm.String() == last.Alarm && l.state.triggered == last.Ringing && now.Sub(last.Updated) < statusInterval {
		return
	}
	l.state.lastStatus = Status{
		Time:      text,
		Alarm:     alarm.String(),
		Ringing:   l.state.triggered,
		Backlight: l.display.Backlight(),
		LastFired: l.state.lastFiredAt,
		Updated:   now,
	}
	l.Publish(l.state.lastStatus)
}
