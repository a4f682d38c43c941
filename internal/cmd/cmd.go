package cmd

import (
	"errors"
	"github.com/clambin/alarmclock/internal/cmd/run"
	"github.com/clambin/alarmclock/internal/cmd/settings"
	"github.com/clambin/go-common/charmer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log/slog"
	"os"
	"strings"
	"time"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "alarmclock",
		Short: "Networked alarm clock with an LCD, a buzzer and a push button",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			charmer.SetTextLogger(cmd, viper.GetBool("debug"))
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	_ = charmer.SetPersistentFlags(&RootCmd, viper.GetViper(), args)

	RootCmd.AddCommand(&run.Cmd, &settings.Cmd)
}

var args = charmer.Arguments{
	"debug":                    {Default: false, Help: "Log debug messages"},
	"settings.path":            {Default: "/var/lib/alarmclock/settings.json", Help: "Settings file"},
	"configserver.addr":        {Default: ":80", Help: "Address of the settings page"},
	"configserver.readTimeout": {Default: 10 * time.Second, Help: "Time a client has to send its request to the settings page"},
	"ops.addr":                 {Default: ":9090", Help: "Address of the metrics, health and settings endpoints"},
	"loop.tick":                {Default: 10 * time.Millisecond, Help: "Interval of the alarm loop"},
	"loop.backlightTimeout":    {Default: 5 * time.Second, Help: "Time the backlight stays on after pressing the button"},
	"clock.applyOffset":        {Default: true, Help: "Show local time (summer/winter offset applied) instead of the raw clock"},
	"ntp.server":               {Default: "pool.ntp.org", Help: "NTP server to synchronize with at startup (blank: use the system clock)"},
	"wifi.interface":           {Default: "wlan0", Help: "Wi-Fi interface (ignored when the hardware is simulated)"},
	"wifi.join":                {Default: false, Help: "Join the configured Wi-Fi network with nmcli at startup"},
	"hardware.enabled":         {Default: false, Help: "Use the LCD, button and buzzer (otherwise simulate them)"},
	"hardware.i2c.bus":         {Default: "", Help: "I2C bus of the LCD (blank: first available bus)"},
	"hardware.i2c.addr":        {Default: 0x27, Help: "I2C address of the LCD"},
	"hardware.button.pin":      {Default: "GPIO17", Help: "GPIO pin of the push button"},
	"hardware.buzzer.pin":      {Default: "GPIO18", Help: "GPIO pin of the buzzer"},
	"hardware.led.pin":         {Default: "", Help: "GPIO pin of the status LED, lit while the settings page is served (blank: no LED)"},
	"slack.token":              {Default: "", Help: "Slack token (blank: Slack disabled)"},
}

func initConfig() {
	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/alarmclock/")
		viper.AddConfigPath("$HOME/.alarmclock")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("ALARMCLOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}
		slog.Error("failed to read config file", "err", err)
		os.Exit(1)
	}
}
