package main

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// ==========================================
// WIFI RADIO (nmcli)
// ==========================================
// nmcliRadio drives the wireless interface through NetworkManager's CLI.
// Each primitive is a single bounded nmcli invocation; the caller's
// context carries the timeout.

type nmcliRadio struct {
	iface string
	log   zerolog.Logger
}

func newNmcliRadio(iface string, log zerolog.Logger) *nmcliRadio {
	return &nmcliRadio{
		iface: iface,
		log:   log.With().Str("component", "radio").Logger(),
	}
}

func (r *nmcliRadio) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "nmcli", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("nmcli %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *nmcliRadio) Connect(ctx context.Context, ssid, password string) error {
	args := []string{"dev", "wifi", "connect", ssid}
	if password != "" {
		args = append(args, "password", password)
	}
	args = append(args, "ifname", r.iface)
	r.log.Debug().Str("ssid", ssid).Str("ifname", r.iface).Msg("nmcli connect")
	_, err := r.run(ctx, args...)
	return err
}

func (r *nmcliRadio) StartAccessPoint(ctx context.Context, ssid, password string) (string, error) {
	_, err := r.run(ctx, "dev", "wifi", "hotspot",
		"ifname", r.iface, "ssid", ssid, "password", password)
	if err != nil {
		return "", err
	}

	out, err := r.run(ctx, "-g", "IP4.ADDRESS", "dev", "show", r.iface)
	if err != nil {
		r.log.Warn().Err(err).Msg("could not read hotspot address")
		return "", nil
	}
	// nmcli prints CIDR notation (10.42.0.1/24), possibly several lines.
	addr := strings.SplitN(out, "\n", 2)[0]
	if i := strings.IndexByte(addr, '/'); i >= 0 {
		addr = addr[:i]
	}
	return addr, nil
}

func (r *nmcliRadio) LinkUp(ctx context.Context) (bool, error) {
	out, err := r.run(ctx, "-g", "GENERAL.STATE", "dev", "show", r.iface)
	if err != nil {
		return false, err
	}
	// "100 (connected)" when the link is established.
	return strings.HasPrefix(out, "100"), nil
}
