package notifier

import (
	"context"
	"log/slog"
)

// Queue hands events to a Notifier running in its own goroutine. Notify never blocks: if the queue is full, the
// event is dropped. Run must be running for events to be delivered.
type Queue struct {
	notifier Notifier
	events   chan queued
	logger   *slog.Logger
}

type queued struct {
	event Event
	text  string
}

var _ Notifier = &Queue{}

func NewQueue(n Notifier, size int, logger *slog.Logger) *Queue {
	return &Queue{
		notifier: n,
		events:   make(chan queued, size),
		logger:   logger,
	}
}

func (q *Queue) Notify(event Event, text string) {
	select {
	case q.events <- queued{event: event, text: text}:
	default:
		q.logger.Warn("notification queue full. dropping event", "event", event.String())
	}
}

func (q *Queue) Run(ctx context.Context) error {
	q.logger.Debug("started")
	defer q.logger.Debug("stopped")
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-q.events:
			q.notifier.Notify(e.event, e.text)
		}
	}
}
