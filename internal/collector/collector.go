package collector

import (
	"context"
	"github.com/clambin/alarmclock/internal/alarm"
	"github.com/clambin/alarmclock/internal/clock"
	"github.com/clambin/alarmclock/internal/dst"
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/prometheus/client_golang/prometheus"
	"log/slog"
	"sync"
)

var (
	alarmRinging = prometheus.NewDesc(
		prometheus.BuildFQName("alarmclock", "alarm", "ringing"),
		"1 if the alarm is ringing",
		nil,
		nil,
	)
	alarmTime = prometheus.NewDesc(
		prometheus.BuildFQName("alarmclock", "alarm", "time_seconds"),
		"Alarm time, in seconds after midnight",
		nil,
		nil,
	)
	alarmWeekdayActive = prometheus.NewDesc(
		prometheus.BuildFQName("alarmclock", "alarm", "weekday_active"),
		"1 if the alarm is active on this day of the week",
		[]string{"day"},
		nil,
	)
	dstActive = prometheus.NewDesc(
		prometheus.BuildFQName("alarmclock", "", "dst_active"),
		"1 if summer time is active",
		nil,
		nil,
	)
	backlightOn = prometheus.NewDesc(
		prometheus.BuildFQName("alarmclock", "", "backlight_on"),
		"1 if the display's backlight is on",
		nil,
		nil,
	)
)

type Publisher interface {
	Subscribe() chan alarm.Status
	Unsubscribe(chan alarm.Status)
}

type SettingsGetter interface {
	Get() settings.Settings
}

// Collector exports the alarm clock's settings and state as Prometheus metrics.
type Collector struct {
	Publisher  Publisher
	Settings   SettingsGetter
	Clock      clock.Clock
	Logger     *slog.Logger
	lock       sync.RWMutex
	lastStatus *alarm.Status
}

func (c *Collector) Run(ctx context.Context) error {
	c.Logger.Debug("started")
	defer c.Logger.Debug("stopped")

	ch := c.Publisher.Subscribe()
	defer c.Publisher.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case status := <-ch:
			c.lock.Lock()
			c.lastStatus = &status
			c.lock.Unlock()
		}
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- alarmRinging
	ch <- alarmTime
	ch <- alarmWeekdayActive
	ch <- dstActive
	ch <- backlightOn
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.Settings.Get()
	ch <- prometheus.MustNewConstMetric(alarmTime, prometheus.GaugeValue, float64(s.Alarm.SecondsAfterMidnight()))
	for i, active := range s.ActiveWeekdays {
		ch <- prometheus.MustNewConstMetric(alarmWeekdayActive, prometheus.GaugeValue, boolValue(active), settings.DayNames[i])
	}
	ch <- prometheus.MustNewConstMetric(dstActive, prometheus.GaugeValue, boolValue(dst.IsActive(c.Clock.Now())))

	c.lock.RLock()
	defer c.lock.RUnlock()
	if c.lastStatus != nil {
		ch <- prometheus.MustNewConstMetric(alarmRinging, prometheus.GaugeValue, boolValue(c.lastStatus.Ringing))
		ch <- prometheus.MustNewConstMetric(backlightOn, prometheus.GaugeValue, boolValue(c.lastStatus.Backlight))
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
