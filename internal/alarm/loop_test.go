package alarm

import (
	"context"
	"github.com/clambin/alarmclock/internal/alarm/mocks"
	"github.com/clambin/alarmclock/internal/clock"
	"github.com/clambin/alarmclock/internal/display"
	"github.com/clambin/alarmclock/internal/hardware"
	"github.com/clambin/alarmclock/internal/notifier"
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	lock sync.Mutex
	now  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
}

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

type testLoop struct {
	*Loop
	store  *settings.Store
	clock  *fakeClock
	fb     *display.Framebuffer
	button *hardware.VirtualButton
	buzzer *hardware.VirtualOutput
	events *recorder
}

// 15 Jan 2024 is a Monday. Winter time: the display runs one hour ahead of UTC.
var monday = time.Date(2024, time.January, 15, 5, 59, 30, 0, time.UTC)

func newTestLoop(t *testing.T, now time.Time) testLoop {
	t.Helper()
	l := slog.New(slog.DiscardHandler)
	tl := testLoop{
		store:  settings.NewStore(filepath.Join(t.TempDir(), "settings.json"), l),
		clock:  &fakeClock{now: now},
		fb:     display.NewFramebuffer(nil),
		button: &hardware.VirtualButton{},
		buzzer: &hardware.VirtualOutput{},
		events: &recorder{},
	}
	tl.Loop = New(
		tl.store,
		tl.clock,
		clock.Formatter{ApplyOffset: true},
		tl.fb,
		tl.button,
		tl.buzzer,
		tl.events,
		Configuration{Tick: time.Millisecond, BacklightTimeout: 5 * time.Second, Address: "192.168.1.10"},
		l,
	)
	return tl
}

func TestLoop_Draw(t *testing.T) {
	tl := newTestLoop(t, monday)
	tl.step()
	assert.Equal(t, []string{"15-01-2024 06:59", "", "Alarm: 07:00", "192.168.1.10"}, tl.fb.Lines())

	tl.clock.Advance(30 * time.Second)
	tl.step()
	assert.Equal(t, "15-01-2024 07:00", tl.fb.Lines()[0])
}

func TestLoop_Alarm(t *testing.T) {
	tl := newTestLoop(t, monday)
	tl.step()
	assert.False(t, tl.buzzer.IsOn())

	// 07:00:00 local
	tl.clock.Advance(30 * time.Second)
	tl.step()
	assert.True(t, tl.buzzer.IsOn())
	assert.Equal(t, []notifier.Event{notifier.AlarmRinging}, tl.events.Events())

	// backlight strobes while ringing
	first := tl.fb.Backlight()
	tl.clock.Advance(10 * time.Millisecond)
	tl.step()
	assert.NotEqual(t, first, tl.fb.Backlight())
	tl.step()
	assert.Equal(t, first, tl.fb.Backlight())

	tl.button.Press()
	tl.step()
	assert.False(t, tl.buzzer.IsOn())
	assert.True(t, tl.fb.Backlight())
	assert.Equal(t, []notifier.Event{notifier.AlarmRinging, notifier.AlarmSilenced}, tl.events.Events())

	// still second 0 of the alarm minute: the alarm does not fire again
	tl.step()
	assert.False(t, tl.buzzer.IsOn())

	// next day, the alarm fires again
	tl.clock.Advance(24 * time.Hour)
	tl.step()
	assert.True(t, tl.buzzer.IsOn())
}

func TestLoop_Alarm_Triggers(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		modify func(*settings.Settings)
		want   bool
	}{
		{
			name: "alarm time",
			now:  monday.Add(30 * time.Second),
			want: true,
		},
		{
			name: "second past the alarm time",
			now:  monday.Add(31 * time.Second),
			want: false,
		},
		{
			name: "inactive day",
			now:  monday.Add(30*time.Second + 5*24*time.Hour),
			want: false,
		},
		{
			name:   "active weekend day",
			now:    monday.Add(30*time.Second + 5*24*time.Hour),
			modify: func(s *settings.Settings) { s.ActiveWeekdays[5] = true },
			want:   true,
		},
		{
			name:   "summer offset",
			now:    time.Date(2024, time.July, 15, 5, 0, 0, 0, time.UTC),
			modify: func(s *settings.Settings) { s.Alarm = settings.AlarmTime{Hour: 7} },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tl := newTestLoop(t, tt.now)
			s := settings.Default()
			if tt.modify != nil {
				tt.modify(&s)
			}
			tl.store.Replace(s)
			tl.step()
			assert.Equal(t, tt.want, tl.buzzer.IsOn())
		})
	}
}

func TestLoop_Button_Held(t *testing.T) {
	tl := newTestLoop(t, monday)
	tl.button.Hold()
	tl.step()

	// a button that was already held when the alarm fires does not silence it
	tl.clock.Advance(30 * time.Second)
	tl.step()
	tl.step()
	assert.True(t, tl.buzzer.IsOn())

	tl.button.Release()
	tl.step()
	assert.True(t, tl.buzzer.IsOn())
	tl.button.Press()
	tl.step()
	assert.False(t, tl.buzzer.IsOn())
}

func TestLoop_Backlight(t *testing.T) {
	tl := newTestLoop(t, monday)
	tl.step()
	assert.False(t, tl.fb.Backlight())

	tl.button.Press()
	tl.step()
	assert.True(t, tl.fb.Backlight())

	tl.clock.Advance(4 * time.Second)
	tl.step()
	assert.True(t, tl.fb.Backlight())

	// holding the button keeps re-arming the deadline
	tl.button.Hold()
	tl.step()
	tl.clock.Advance(4 * time.Second)
	tl.step()
	tl.button.Release()
	tl.clock.Advance(4 * time.Second)
	tl.step()
	assert.True(t, tl.fb.Backlight())

	tl.clock.Advance(2 * time.Second)
	tl.step()
	assert.False(t, tl.fb.Backlight())
}

func TestLoop_Silence(t *testing.T) {
	tl := newTestLoop(t, monday.Add(30*time.Second))
	tl.step()
	require.True(t, tl.buzzer.IsOn())

	tl.Silence()
	tl.Silence()
	tl.step()
	assert.False(t, tl.buzzer.IsOn())
	assert.True(t, tl.fb.Backlight())
	assert.Equal(t, []notifier.Event{notifier.AlarmRinging, notifier.AlarmSilenced}, tl.events.Events())
}

func TestLoop_LegacyOffset(t *testing.T) {
	tl := newTestLoop(t, monday)
	tl.formatter = clock.Formatter{ApplyOffset: false}
	tl.step()
	assert.Equal(t, "15-01-2024 05:59", tl.fb.Lines()[0])
}

func TestLoop_Run(t *testing.T) {
	tl := newTestLoop(t, monday)
	ch := tl.Subscribe()
	defer tl.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error)
	go func() { errCh <- tl.Run(ctx) }()

	status := <-ch
	assert.Equal(t, "15-01-2024 06:59", status.Time)
	assert.Equal(t, "07:00", status.Alarm)
	assert.False(t, status.Ringing)

	// new settings are drawn, even if the time did not change
	s := settings.Default()
	s.Alarm = settings.AlarmTime{Hour: 6, Minute: 59}
	tl.store.Replace(s)
	assert.Eventually(t, func() bool {
		return tl.fb.Lines()[2] == "Alarm: 06:59"
	}, time.Second, time.Millisecond)

	s.Alarm = settings.AlarmTime{Hour: 7}
	tl.store.Replace(s)
	tl.clock.Advance(30 * time.Second)
	assert.Eventually(t, func() bool {
		status := <-ch
		return status.Ringing && !status.LastFired.IsZero()
	}, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, <-errCh)
	assert.False(t, tl.buzzer.IsOn())
}

type stalledNotifier struct {
	release chan struct{}
}

func (s stalledNotifier) Notify(notifier.Event, string) {
	<-s.release
}

func TestLoop_Run_SlowNotifier(t *testing.T) {
	tl := newTestLoop(t, monday.Add(29*time.Second))
	release := make(chan struct{})
	q := notifier.NewQueue(stalledNotifier{release: release}, 4, slog.New(slog.DiscardHandler))
	tl.notifier = q

	ctx, cancel := context.WithCancel(t.Context())
	var g errgroup.Group
	g.Go(func() error { return q.Run(ctx) })
	g.Go(func() error { return tl.Run(ctx) })

	// the alarm fires. delivering its notification stalls
	tl.clock.Advance(time.Second)
	require.Eventually(t, tl.buzzer.IsOn, time.Second, time.Millisecond)

	// the loop keeps running: the button silences the alarm
	tl.button.Hold()
	assert.Eventually(t, func() bool { return !tl.buzzer.IsOn() }, 100*time.Millisecond, time.Millisecond)

	close(release)
	cancel()
	assert.NoError(t, g.Wait())
}

func TestLoop_Run_SettingsUpdate(t *testing.T) {
	s := settings.Default()
	s.Alarm = settings.AlarmTime{Hour: 6, Minute: 45}
	ch := make(chan settings.Settings)

	store := mocks.NewSettingsStore(t)
	store.EXPECT().Subscribe().Return(ch).Once()
	store.EXPECT().Unsubscribe(ch).Once()
	store.EXPECT().Get().Return(s)

	fb := display.NewFramebuffer(nil)
	l := New(
		store,
		&fakeClock{now: monday},
		clock.Formatter{ApplyOffset: true},
		fb,
		&hardware.VirtualButton{},
		&hardware.VirtualOutput{},
		&recorder{},
		Configuration{Tick: time.Hour},
		slog.New(slog.DiscardHandler),
	)

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error)
	go func() { errCh <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return fb.Lines()[2] == "Alarm: 06:45" }, time.Second, time.Millisecond)

	// an update forces a redraw, even though the displayed time did not change
	fb.Clear()
	ch <- s
	assert.Eventually(t, func() bool { return fb.Lines()[0] == "15-01-2024 06:59" }, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, <-errCh)
}
