// Package ops serves the alarm clock's operational endpoints: Prometheus metrics, health and the current settings.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
	"net/http"
	"time"
)

type SettingsGetter interface {
	Get() settings.Settings
}

// NewRouter returns the ops routes. Metrics are served from g.
func NewRouter(health http.Handler, s SettingsGetter, g prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.Handle("/health", health).Methods(http.MethodGet)
	r.HandleFunc("/settings", settingsHandler(s)).Methods(http.MethodGet)
	return r
}

func settingsHandler(s SettingsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.Get().Redacted()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// Server runs an HTTP server until its context is cancelled.
type Server struct {
	Addr    string
	Handler http.Handler
	Logger  *slog.Logger
}

func (s Server) Run(ctx context.Context) error {
	srv := http.Server{Addr: s.Addr, Handler: s.Handler, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("ops server started", "addr", s.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Logger.Info("ops server stopped")
	return err
}
