package clock

import (
	"context"
	"fmt"
	"github.com/beevik/ntp"
	"log/slog"
	"sync/atomic"
	"time"
)

// A Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the host's time, in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// NTPClock returns the host's time, in UTC, corrected by the offset measured during the last Sync.
type NTPClock struct {
	Server string
	Logger *slog.Logger
	offset atomic.Int64
	query  func(string) (*ntp.Response, error)
}

func (c *NTPClock) Now() time.Time {
	return time.Now().Add(time.Duration(c.offset.Load())).UTC()
}

// Offset returns the current correction applied to the host time.
func (c *NTPClock) Offset() time.Duration {
	return time.Duration(c.offset.Load())
}

// Sync queries the NTP server and stores the host clock's offset.
func (c *NTPClock) Sync(ctx context.Context) error {
	query := c.query
	if query == nil {
		query = ntp.Query
	}

	type result struct {
		resp *ntp.Response
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := query(c.Server)
		ch <- result{resp: resp, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r = <-ch:
	}
	if r.err == nil {
		r.err = r.resp.Validate()
	}
	if r.err != nil {
		return fmt.Errorf("ntp %s: %w", c.Server, r.err)
	}
	c.offset.Store(int64(r.resp.ClockOffset))
	c.Logger.Info("clock synchronized", "server", c.Server, "offset", r.resp.ClockOffset)
	return nil
}
