// Package bot lets users query and silence the alarm clock through Slack.
package bot

import (
	"context"
	"github.com/clambin/alarmclock/internal/alarm"
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/clambin/go-common/slackbot"
	"github.com/slack-go/slack"
	"log/slog"
	"strings"
	"sync"
)

type Bot struct {
	slack    SlackBot
	loop     Loop
	settings SettingsGetter
	logger   *slog.Logger
	lock     sync.RWMutex
	status   alarm.Status
	updated  bool
}

type SlackBot interface {
	Add(commands slackbot.Commands)
	Run(ctx context.Context) error
	Send(channel string, attachments []slack.Attachment) error
}

var _ SlackBot = &slackbot.SlackBot{}

// Loop is the part of alarm.Loop the bot uses.
type Loop interface {
	Subscribe() chan alarm.Status
	Unsubscribe(chan alarm.Status)
	Silence()
}

type SettingsGetter interface {
	Get() settings.Settings
}

func New(alarmBot SlackBot, l Loop, s SettingsGetter, logger *slog.Logger) *Bot {
	b := Bot{
		slack:    alarmBot,
		loop:     l,
		settings: s,
		logger:   logger,
	}
	alarmBot.Add(slackbot.Commands{
		"alarm":   slackbot.HandlerFunc(b.ReportAlarm),
		"time":    slackbot.HandlerFunc(b.ReportTime),
		"silence": slackbot.HandlerFunc(b.Silence),
	})

	return &b
}

// Run keeps track of the alarm loop's status until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Debug("started")
	defer b.logger.Debug("stopped")

	ch := b.loop.Subscribe()
	defer b.loop.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return nil
		case status := <-ch:
			b.lock.Lock()
			b.status = status
			b.updated = true
			b.lock.Unlock()
		}
	}
}

func (b *Bot) getStatus() (alarm.Status, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.status, b.updated
}

func (b *Bot) ReportAlarm(_ context.Context, _ ...string) []slack.Attachment {
	s := b.settings.Get()
	days := "never"
	if names := s.ActiveWeekdays.Names(); len(names) > 0 {
		days = strings.Join(names, ", ")
	}
	text := []string{"time: " + s.Alarm.String(), "days: " + days}
	if status, ok := b.getStatus(); ok && status.Ringing {
		text = append(text, "the alarm is ringing")
	}
	return []slack.Attachment{{
		Color: "good",
		Title: "alarm:",
		Text:  strings.Join(text, "\n"),
	}}
}

func (b *Bot) ReportTime(_ context.Context, _ ...string) []slack.Attachment {
	status, ok := b.getStatus()
	if !ok {
		return []slack.Attachment{{
			Color: "bad",
			Text:  "no updates yet. please check back later",
		}}
	}
	return []slack.Attachment{{
		Color: "good",
		Text:  status.Time,
	}}
}

func (b *Bot) Silence(_ context.Context, _ ...string) []slack.Attachment {
	if status, ok := b.getStatus(); !ok || !status.Ringing {
		return []slack.Attachment{{
			Color: "warning",
			Text:  "the alarm is not ringing",
		}}
	}
	b.loop.Silence()
	b.logger.Info("alarm silenced from slack")
	return []slack.Attachment{{
		Color: "good",
		Text:  "alarm silenced",
	}}
}
