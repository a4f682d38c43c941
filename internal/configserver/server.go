// Package configserver implements the device's settings page: a minimal HTTP/1.1 server that handles one
// connection at a time.
package configserver

import (
	"context"
	"errors"
	"fmt"
	"github.com/clambin/alarmclock/internal/notifier"
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultReadTimeout is the time a client has to send its request.
	DefaultReadTimeout = 10 * time.Second
	// DefaultBackoff is the time Serve waits after a failed connection.
	DefaultBackoff = time.Second
)

type Store interface {
	Get() settings.Settings
	Replace(settings.Settings)
	Persist() error
}

// A StatusLED is lit while the server accepts connections.
type StatusLED interface {
	On()
	Off()
}

var _ prometheus.Collector = &Server{}

// Server serves the settings page and stores the submitted settings.
type Server struct {
	// StatusLED is optional.
	StatusLED   StatusLED
	store       Store
	notifier    notifier.Notifier
	readTimeout time.Duration
	logger      *slog.Logger
	limiter     *rate.Limiter
	requests    *prometheus.CounterVec
	saves       prometheus.Counter
}

func New(store Store, n notifier.Notifier, readTimeout time.Duration, logger *slog.Logger) *Server {
	if readTimeout == 0 {
		readTimeout = DefaultReadTimeout
	}
	return &Server{
		store:       store,
		notifier:    n,
		readTimeout: readTimeout,
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Every(DefaultBackoff), 1),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alarmclock",
			Subsystem: "configserver",
			Name:      "requests_total",
			Help:      "Number of requests handled by the settings page",
		}, []string{"method", "code"}),
		saves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alarmclock",
			Subsystem: "configserver",
			Name:      "saves_total",
			Help:      "Number of times new settings were saved",
		}),
	}
}

// Serve accepts connections on l until ctx is cancelled. Connections are handled one at a time.
// After a failed connection, Serve waits before accepting the next one.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.logger.Info("config server started", "addr", l.Addr().String())
	defer s.logger.Info("config server stopped")

	if s.StatusLED != nil {
		s.StatusLED.On()
		defer s.StatusLED.Off()
	}

	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()

	for {
		conn, err := l.Accept()
		if ctx.Err() != nil {
			if conn != nil {
				_ = conn.Close()
			}
			return nil
		}
		if errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("accept: %w", err)
		}
		if err == nil {
			err = s.handle(conn)
		}
		if err != nil {
			s.logger.Warn("connection failed", "err", err)
			if s.backoff(ctx) != nil {
				return nil
			}
		}
	}
}

// backoff waits for the limiter's next token. The failed connection takes the current one, so even the first
// failure waits a full interval.
func (s *Server) backoff(ctx context.Context) error {
	s.limiter.Allow()
	return s.limiter.Wait(ctx)
}

func (s *Server) handle(conn net.Conn) error {
	logger := s.logger.With("conn", uuid.NewString(), "remote", conn.RemoteAddr().String())
	defer func() { _ = conn.Close() }()

	if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	req, err := readRequest(conn)
	if errors.Is(err, errNoRequest) {
		logger.Debug("connection closed without a request")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("request received", "method", req.Method, "path", req.Path)

	var code int
	if req.Method == "POST" && strings.HasPrefix(req.Path, "/save") {
		code, err = s.save(conn, req, logger)
	} else {
		code, err = s.page(conn)
	}
	s.requests.WithLabelValues(req.Method, strconv.Itoa(code)).Inc()
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	logger.Debug("request handled", "code", code)
	return nil
}

func (s *Server) save(w io.Writer, req request, logger *slog.Logger) (int, error) {
	newSettings := settingsFromForm(parseForm(req.Body))
	s.store.Replace(newSettings)
	if err := s.store.Persist(); err != nil {
		logger.Error("failed to save settings", "err", err)
	}
	s.saves.Inc()
	logger.Info("settings saved", "settings", newSettings.Redacted())
	s.notifier.Notify(notifier.SettingsSaved, fmt.Sprintf("alarm %s, days: %s", newSettings.Alarm, strings.Join(newSettings.ActiveWeekdays.Names(), ", ")))

	_, err := io.WriteString(w, "HTTP/1.1 303 See Other\r\nLocation: /\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
	return 303, err
}

func (s *Server) page(w io.Writer) (int, error) {
	body, err := renderPage(s.store.Get())
	if err != nil {
		s.logger.Error("failed to render settings page", "err", err)
		_, err = io.WriteString(w, "HTTP/1.1 500 Internal Server Error\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
		return 500, err
	}
	header := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: text/html; charset=utf-8\r\nContent-Length: %d\r\nConnection: close\r\n\r\n", len(body))
	if _, err = io.WriteString(w, header); err == nil {
		_, err = w.Write(body)
	}
	return 200, err
}

func (s *Server) Describe(ch chan<- *prometheus.Desc) {
	s.requests.Describe(ch)
	s.saves.Describe(ch)
}

func (s *Server) Collect(ch chan<- prometheus.Metric) {
	s.requests.Collect(ch)
	s.saves.Collect(ch)
}
