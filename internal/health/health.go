package health

import (
	"context"
	"encoding/json"
	"github.com/clambin/alarmclock/internal/alarm"
	"log/slog"
	"net/http"
	"sync"
)

type Publisher interface {
	Subscribe() chan alarm.Status
	Unsubscribe(chan alarm.Status)
}

// Health reports the latest status of the alarm loop. Until the loop has published its first status,
// the device is reported as unavailable.
type Health struct {
	Publisher
	logger  *slog.Logger
	status  alarm.Status
	updated bool
	lock    sync.RWMutex
}

func New(p Publisher, logger *slog.Logger) *Health {
	return &Health{
		Publisher: p,
		logger:    logger,
	}
}

func (h *Health) Run(ctx context.Context) error {
	h.logger.Debug("started")
	defer h.logger.Debug("stopped")

	ch := h.Publisher.Subscribe()
	defer h.Publisher.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case status := <-ch:
			h.lock.Lock()
			h.status = status
			h.updated = true
			h.lock.Unlock()
		}
	}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	if !h.updated {
		http.Error(w, "no update yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(h.status); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
