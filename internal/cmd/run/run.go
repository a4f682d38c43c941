package run

import (
	"context"
	"fmt"
	"github.com/clambin/alarmclock/internal/alarm"
	"github.com/clambin/alarmclock/internal/bot"
	"github.com/clambin/alarmclock/internal/clock"
	"github.com/clambin/alarmclock/internal/collector"
	"github.com/clambin/alarmclock/internal/configserver"
	"github.com/clambin/alarmclock/internal/display"
	"github.com/clambin/alarmclock/internal/hardware"
	"github.com/clambin/alarmclock/internal/health"
	"github.com/clambin/alarmclock/internal/network"
	"github.com/clambin/alarmclock/internal/notifier"
	"github.com/clambin/alarmclock/internal/ops"
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/clambin/go-common/charmer"
	"github.com/clambin/go-common/slackbot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var Cmd = cobra.Command{
	Use:   "run",
	Short: "Run the alarm clock",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return run(ctx, viper.GetViper(), cmd.Root().Version, charmer.GetLogger(cmd))
	},
}

const notificationQueueSize = 16

// A Task runs until its context is cancelled.
type Task interface {
	Run(ctx context.Context) error
}

type taskFunc func(ctx context.Context) error

func (f taskFunc) Run(ctx context.Context) error {
	return f(ctx)
}

func run(ctx context.Context, v *viper.Viper, version string, l *slog.Logger) error {
	l.Info("alarmclock starting", "version", version)
	defer l.Info("alarmclock stopped")

	d, err := newDevices(v, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.close(); err != nil {
			l.Warn("failed to close devices", "err", err)
		}
	}()

	store := settings.NewStore(v.GetString("settings.path"), l.With("component", "settings"))

	d.display.Clear()
	d.display.PutStr("connecting to Wi-Fi")
	address, err := connect(ctx, v, store.Get(), l)
	if err != nil {
		return err
	}

	tasks, err := makeTasks(ctx, v, store, d, address, version, l)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error { return task.Run(ctx) })
	}
	return g.Wait()
}

type devices struct {
	display display.Display
	button  hardware.Button
	buzzer  hardware.Output
	led     hardware.Output
	close   func() error
}

func newDevices(v *viper.Viper, l *slog.Logger) (devices, error) {
	if !v.GetBool("hardware.enabled") {
		l.Info("hardware disabled. simulating display, button, buzzer and LED")
		return devices{
			display: display.NewFramebuffer(l.With("component", "display")),
			button:  &hardware.VirtualButton{},
			buzzer:  &hardware.VirtualOutput{},
			led:     &hardware.VirtualOutput{},
			close:   func() error { return nil },
		}, nil
	}

	if err := hardware.Init(); err != nil {
		return devices{}, err
	}
	lcd, closeLCD, err := display.OpenLCD(v.GetString("hardware.i2c.bus"), uint16(v.GetInt("hardware.i2c.addr")), l.With("component", "lcd"))
	if err != nil {
		return devices{}, fmt.Errorf("lcd: %w", err)
	}
	d := devices{display: lcd, led: &hardware.VirtualOutput{}, close: closeLCD}
	if d.button, err = hardware.NewGPIOButton(v.GetString("hardware.button.pin")); err == nil {
		d.buzzer, err = hardware.NewGPIOOutput(v.GetString("hardware.buzzer.pin"))
	}
	if pin := v.GetString("hardware.led.pin"); err == nil && pin != "" {
		d.led, err = hardware.NewGPIOOutput(pin)
	}
	if err != nil {
		_ = closeLCD()
		return devices{}, err
	}
	return d, nil
}

// connect blocks until the device has a network address.
func connect(ctx context.Context, v *viper.Viper, s settings.Settings, l *slog.Logger) (string, error) {
	station := newStation(v, l.With("component", "network"))
	if v.GetBool("wifi.join") {
		station.Join = network.NMCLIJoin(station.Interface)
	}
	address, err := station.Connect(ctx, s.WifiName, s.WifiPassword)
	if err != nil {
		return "", fmt.Errorf("network: %w", err)
	}
	return address, nil
}

// newStation returns the Station that waits for the network. A simulated clock accepts an address on any interface.
func newStation(v *viper.Viper, l *slog.Logger) network.Station {
	station := network.Station{Interface: v.GetString("wifi.interface"), Logger: l}
	if !v.GetBool("hardware.enabled") {
		station.Interface = ""
	}
	return station
}

func makeTasks(ctx context.Context, v *viper.Viper, store *settings.Store, d devices, address string, version string, l *slog.Logger) ([]Task, error) {
	var tasks []Task

	// Clock
	var clk clock.Clock = clock.SystemClock{}
	if server := v.GetString("ntp.server"); server != "" {
		ntpClock := clock.NTPClock{Server: server, Logger: l.With("component", "clock")}
		if err := ntpClock.Sync(ctx); err != nil {
			l.Warn("failed to synchronize clock. using system time", "err", err)
		}
		clk = &ntpClock
	}

	// Notifiers
	notifiers := notifier.Notifiers{notifier.SLogNotifier{Logger: l.With("component", "notifier")}}
	token := v.GetString("slack.token")
	if token != "" {
		notifiers = append(notifiers, &notifier.SlackNotifier{
			Logger:      l.With("component", "slack-notifier"),
			SlackSender: slack.New(token),
		})
	}

	// Notification queue
	queue := notifier.NewQueue(notifiers, notificationQueueSize, l.With("component", "notifier-queue"))
	tasks = append(tasks, queue)

	// Alarm loop
	loop := alarm.New(
		store,
		clk,
		clock.Formatter{ApplyOffset: v.GetBool("clock.applyOffset")},
		d.display,
		d.button,
		d.buzzer,
		queue,
		alarm.Configuration{
			Tick:             v.GetDuration("loop.tick"),
			BacklightTimeout: v.GetDuration("loop.backlightTimeout"),
			Address:          address,
		},
		l.With("component", "loop"),
	)
	tasks = append(tasks, loop)

	// Config server
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	listener, err := net.Listen("tcp", v.GetString("configserver.addr"))
	if err != nil {
		return nil, fmt.Errorf("config server: %w", err)
	}
	cfgServer := configserver.New(store, queue, v.GetDuration("configserver.readTimeout"), l.With("component", "configserver"))
	cfgServer.StatusLED = d.led
	registry.MustRegister(cfgServer)
	tasks = append(tasks, taskFunc(func(ctx context.Context) error { return cfgServer.Serve(ctx, listener) }))

	// Collector
	coll := &collector.Collector{Publisher: loop, Settings: store, Clock: clk, Logger: l.With("component", "collector")}
	registry.MustRegister(coll)
	tasks = append(tasks, coll)

	// Health & ops endpoint
	h := health.New(loop, l.With("component", "health"))
	tasks = append(tasks, h, ops.Server{
		Addr:    v.GetString("ops.addr"),
		Handler: ops.NewRouter(h, store, registry),
		Logger:  l.With("component", "ops"),
	})

	// Slackbot
	if token != "" {
		sb := slackbot.New(
			token,
			slackbot.WithName("alarmclock "+version),
			slackbot.WithLogger(l.With(slog.String("component", "slackbot"))),
		)
		tasks = append(tasks, sb, bot.New(sb, loop, store, l.With(slog.String("component", "alarmbot"))))
	}

	// Simulation
	if fb, ok := d.display.(*display.Framebuffer); ok {
		tasks = append(tasks, simulator{framebuffer: fb, button: d.button, interval: 10 * time.Second})
	}

	return tasks, nil
}

// simulator logs the content of the simulated display and presses the simulated button on SIGUSR1.
type simulator struct {
	framebuffer *display.Framebuffer
	button      hardware.Button
	interval    time.Duration
}

func (s simulator) Run(ctx context.Context) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGUSR1)
	defer signal.Stop(sig)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.framebuffer.Flush()
		case <-sig:
			if b, ok := s.button.(*hardware.VirtualButton); ok {
				b.Press()
			}
		}
	}
}
