// Package network connects the alarm clock to its Wi-Fi network.
package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"time"
)

// Station is the device's Wi-Fi station interface.
type Station struct {
	// Interface is the name of the network interface. If blank, any non-loopback interface is used.
	Interface string
	// Join runs the OS command that associates with the given network. If nil, the station assumes
	// the OS manages the association and only waits for an address.
	Join   func(ctx context.Context, ssid, password string) error
	Logger *slog.Logger
	// PollInterval is the time between two address checks. Defaults to 500ms.
	PollInterval time.Duration

	interfaces func() ([]iface, error)
}

type iface struct {
	name  string
	flags net.Flags
	addrs []net.Addr
}

func systemInterfaces() ([]iface, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]iface, 0, len(interfaces))
	for _, i := range interfaces {
		addrs, err := i.Addrs()
		if err != nil {
			continue
		}
		result = append(result, iface{name: i.Name, flags: i.Flags, addrs: addrs})
	}
	return result, nil
}

var ErrNoAddress = errors.New("no IPv4 address")

// Connect joins the network and blocks until the station has an IPv4 address or ctx is done.
func (s *Station) Connect(ctx context.Context, ssid, password string) (string, error) {
	if s.Join != nil && ssid != "" {
		if err := s.Join(ctx, ssid, password); err != nil {
			// the association may still succeed, or the OS may already be connected elsewhere
			s.Logger.Warn("failed to join network", "ssid", ssid, "err", err)
		}
	}

	interval := s.PollInterval
	if interval == 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 0; ; attempt++ {
		ip, err := s.IP()
		if err == nil {
			s.Logger.Info("connected", "ssid", ssid, "ip", ip)
			return ip, nil
		}
		level := slog.LevelDebug
		if attempt == 0 {
			level = slog.LevelInfo
		}
		s.Logger.Log(ctx, level, "waiting for network", "ssid", ssid, "interface", s.Interface, "err", err)
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("connect: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// IP returns the first IPv4 address of the station's interface.
func (s *Station) IP() (string, error) {
	list := s.interfaces
	if list == nil {
		list = systemInterfaces
	}
	interfaces, err := list()
	if err != nil {
		return "", fmt.Errorf("interfaces: %w", err)
	}
	for _, i := range interfaces {
		if i.flags&net.FlagUp == 0 || i.flags&net.FlagLoopback != 0 {
			continue
		}
		if s.Interface != "" && i.name != s.Interface {
			continue
		}
		if ip := firstIPv4(i.addrs); ip != "" {
			return ip, nil
		}
	}
	return "", ErrNoAddress
}

func firstIPv4(addrs []net.Addr) string {
	for _, addr := range addrs {
		var ip net.IP
		switch a := addr.(type) {
		case *net.IPNet:
			ip = a.IP
		case *net.IPAddr:
			ip = a.IP
		}
		if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
			return ip4.String()
		}
	}
	return ""
}

// NMCLIJoin associates with a network through NetworkManager.
func NMCLIJoin(iface string) func(ctx context.Context, ssid, password string) error {
	return func(ctx context.Context, ssid, password string) error {
		args := []string{"device", "wifi", "connect", ssid}
		if password != "" {
			args = append(args, "password", password)
		}
		if iface != "" {
			args = append(args, "ifname", iface)
		}
		if out, err := exec.CommandContext(ctx, "nmcli", args...).CombinedOutput(); err != nil {
			return fmt.Errorf("nmcli: %w: %s", err, out)
		}
		return nil
	}
}
