package main

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ==========================================
// LED STRIP DRIVERS
// ==========================================

// Strip pushes complete frames to the physical ring.
type Strip interface {
	Render(Frame) error
	Close() error
}

// openStrip selects the driver from config: PWM via the ws281x library
// on the data GPIO, SPI for rings wired to the SPI MOSI line, or a null
// driver for headless runs.
func openStrip(cfg Config, log zerolog.Logger) (Strip, error) {
	switch cfg.LedDriver {
	case "pwm":
		return openWS281xStrip(cfg.LedGpioPin, log)
	case "spi":
		return openSPIStrip(cfg.LedSpiPort, log)
	case "off":
		return nullStrip{}, nil
	default:
		return nil, fmt.Errorf("unknown led driver %q", cfg.LedDriver)
	}
}

// nullStrip discards frames; the web preview still works without LEDs.
type nullStrip struct{}

func (nullStrip) Render(Frame) error { return nil }
func (nullStrip) Close() error       { return nil }
