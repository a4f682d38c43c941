package configserver

import (
	"bytes"
	"context"
	"github.com/clambin/alarmclock/internal/hardware"
	"github.com/clambin/alarmclock/internal/notifier"
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	lock   sync.Mutex
	events []notifier.Event
}

func (r *recorder) Notify(event notifier.Event, _ string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) Events() []notifier.Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]notifier.Event(nil), r.events...)
}

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

const testBackoff = 200 * time.Millisecond

type testServer struct {
	*Server
	store  *settings.Store
	path   string
	events *recorder
	logs   *syncBuffer
	addr   string
}

func startServer(t *testing.T, readTimeout time.Duration) testServer {
	t.Helper()
	ts := testServer{
		path:   filepath.Join(t.TempDir(), "settings.json"),
		events: &recorder{},
		logs:   &syncBuffer{},
	}
	l := slog.New(slog.NewTextHandler(ts.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ts.store = settings.NewStore(ts.path, l)
	ts.Server = New(ts.store, ts.events, readTimeout, l)
	ts.limiter = rate.NewLimiter(rate.Every(testBackoff), 1)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- ts.Serve(ctx, listener) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-errCh)
	})
	ts.addr = listener.Addr().String()
	return ts
}

func do(t *testing.T, addr string, raw string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	_, err = io.WriteString(conn, raw)
	require.NoError(t, err)
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(resp)
}

func TestServer_Page(t *testing.T) {
	addr := startServer(t, time.Second).addr

	resp := do(t, addr, "GET / HTTP/1.1\r\nHost: clock\r\n\r\n")
	assert.True(t, strings.HasPrefix(resp, "HTTP/1.1 200 OK\r\nContent-Type: text/html; charset=utf-8\r\n"))
	assert.Contains(t, resp, `value="07:00"`)

	// any path returns the settings page
	resp = do(t, addr, "GET /favicon.ico HTTP/1.1\r\n\r\n")
	assert.True(t, strings.HasPrefix(resp, "HTTP/1.1 200 OK\r\n"))
}

func TestServer_Save(t *testing.T) {
	s := startServer(t, time.Second)
	store, addr := s.store, s.addr

	body := "wifi-naam=home&wifi-wachtwoord=secret&zomeruur=2&winteruur=1&alarm=6%3A30&za=on&zo=on"
	resp := do(t, addr, "POST /save HTTP/1.1\r\nContent-Length: "+strconv.Itoa(len(body))+"\r\n\r\n"+body)
	assert.True(t, strings.HasPrefix(resp, "HTTP/1.1 303 See Other\r\nLocation: /\r\n"))

	got := store.Get()
	assert.Equal(t, "home", got.WifiName)
	assert.Equal(t, settings.AlarmTime{Hour: 6, Minute: 30}, got.Alarm)
	assert.Equal(t, settings.Weekdays{5: true, 6: true}, got.ActiveWeekdays)
	assert.Equal(t, []notifier.Event{notifier.SettingsSaved}, s.events.Events())

	// the settings were persisted
	persisted, err := settings.Load(s.path)
	require.NoError(t, err)
	assert.Equal(t, got, persisted)

	// the page shows the new settings
	resp = do(t, addr, "GET / HTTP/1.1\r\n\r\n")
	assert.Contains(t, resp, `value="06:30"`)
	assert.Contains(t, resp, `name="zo" checked>`)
	assert.Contains(t, resp, `name="ma" >`)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.saves))
	assert.NoError(t, testutil.CollectAndCompare(s, strings.NewReader(`
# HELP alarmclock_configserver_requests_total Number of requests handled by the settings page
# TYPE alarmclock_configserver_requests_total counter
alarmclock_configserver_requests_total{code="200",method="GET"} 1
alarmclock_configserver_requests_total{code="303",method="POST"} 1
`), "alarmclock_configserver_requests_total"))
}

func TestServer_HTTPClient(t *testing.T) {
	s := startServer(t, time.Second)
	store, addr := s.store, s.addr

	// the client follows the redirect back to the settings page
	resp, err := http.PostForm("http://"+addr+"/save", url.Values{"alarm": {"8:15"}, "ma": {"on"}})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), `value="08:15"`)
	assert.Equal(t, settings.AlarmTime{Hour: 8, Minute: 15}, store.Get().Alarm)
}

func TestServer_SplitHeader(t *testing.T) {
	s := startServer(t, time.Second)

	body := "wifi-naam=home&wifi-wachtwoord=secret&alarm=8%3A15&ma=on"
	conn, err := net.Dial("tcp", s.addr)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	// the header's last line break arrives in a later segment, together with the body
	_, err = io.WriteString(conn, "POST /save HTTP/1.1\r\nContent-Length: "+strconv.Itoa(len(body))+"\r\n")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	_, err = io.WriteString(conn, "\r\n"+body)
	require.NoError(t, err)

	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(resp), "HTTP/1.1 303 See Other\r\n"))

	got := s.store.Get()
	assert.Equal(t, "home", got.WifiName)
	assert.Equal(t, "secret", got.WifiPassword)
	assert.Equal(t, settings.AlarmTime{Hour: 8, Minute: 15}, got.Alarm)
	assert.Equal(t, settings.Weekdays{0: true}, got.ActiveWeekdays)
}

func TestServer_IncompleteHeader(t *testing.T) {
	s := startServer(t, time.Second)
	current := settings.Default()
	current.WifiName = "home"
	current.WifiPassword = "secret"
	s.store.Replace(current)

	conn, err := net.Dial("tcp", s.addr)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	_, err = io.WriteString(conn, "POST /save HTTP/1.1\r\nContent-Length: 5\r\n")
	require.NoError(t, err)
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	// the request is rejected: no response and the stored settings are untouched
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Empty(t, resp)
	assert.Equal(t, current, s.store.Get())
	assert.Empty(t, s.events.Events())
	assert.Eventually(t, func() bool {
		return strings.Contains(s.logs.String(), "incomplete request header")
	}, time.Second, time.Millisecond)
}

func TestServer_EmptyConnection(t *testing.T) {
	s := startServer(t, time.Second)

	conn, err := net.Dial("tcp", s.addr)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	// the empty connection is closed silently and does not delay the next one
	start := time.Now()
	resp := do(t, s.addr, "GET / HTTP/1.1\r\n\r\n")
	assert.True(t, strings.HasPrefix(resp, "HTTP/1.1 200 OK\r\n"))
	assert.Less(t, time.Since(start), testBackoff)
	assert.Contains(t, s.logs.String(), "connection closed without a request")
	assert.NotContains(t, s.logs.String(), "connection failed")
}

func TestServer_StalledClient(t *testing.T) {
	s := startServer(t, 100*time.Millisecond)

	start := time.Now()
	stalled, err := net.Dial("tcp", s.addr)
	require.NoError(t, err)
	defer func() { _ = stalled.Close() }()

	// the stalled connection times out. after backing off, the server continues with the next one.
	resp := do(t, s.addr, "GET / HTTP/1.1\r\n\r\n")
	assert.True(t, strings.HasPrefix(resp, "HTTP/1.1 200 OK\r\n"))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond+testBackoff)
	assert.Equal(t, 1, strings.Count(s.logs.String(), "connection failed"))
}

func TestServer_StatusLED(t *testing.T) {
	l := slog.New(slog.DiscardHandler)
	s := New(settings.NewStore(filepath.Join(t.TempDir(), "settings.json"), l), &recorder{}, time.Second, l)
	var led hardware.VirtualOutput
	s.StatusLED = &led

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- s.Serve(ctx, listener) }()

	assert.Eventually(t, led.IsOn, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-errCh)
	assert.False(t, led.IsOn())
}
