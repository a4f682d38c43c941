package settings

import (
	"encoding/json"
	"fmt"
	"github.com/clambin/alarmclock/internal/settings"
	"github.com/clambin/go-common/charmer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"io"
)

var (
	Cmd = cobra.Command{
		Use:   "settings",
		Short: "Manage the alarm clock's settings",
	}
	showCmd = cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEncoder(cmd.OutOrStdout(), viper.GetString("format"))
			if err != nil {
				return err
			}
			return Show(viper.GetString("settings.path"), viper.GetBool("reveal"), e)
		},
	}

	args = charmer.Arguments{
		"format": {Default: "yaml", Help: "Output format (yaml or json)"},
		"reveal": {Default: false, Help: "Show the Wi-Fi password"},
	}
)

func init() {
	_ = charmer.SetPersistentFlags(&showCmd, viper.GetViper(), args)
	Cmd.AddCommand(&showCmd)
}

type Encoder interface {
	Encode(any) error
}

func newEncoder(w io.Writer, format string) (Encoder, error) {
	switch format {
	case "yaml":
		return yaml.NewEncoder(w), nil
	case "json":
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e, nil
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// Show writes the settings stored in path. Unless reveal is set, the Wi-Fi password is masked.
func Show(path string, reveal bool, e Encoder) error {
	s, err := settings.Load(path)
	if err != nil {
		return err
	}
	if !reveal {
		s = s.Redacted()
	}
	return e.Encode(s)
}
