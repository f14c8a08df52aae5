package main

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
	"github.com/rs/zerolog"
)

// ==========================================
// WS281X PWM DRIVER
// ==========================================
// Drives the ring over the Pi's PWM peripheral. Brightness is handled in
// the renderer, so the hardware channel stays at full scale and the
// frame colors pass through unmodified.

type ws281xStrip struct {
	dev *ws2811.WS2811
	log zerolog.Logger
}

func openWS281xStrip(gpioPin int, log zerolog.Logger) (*ws281xStrip, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = gpioPin
	opt.Channels[0].LedCount = NumPixels
	opt.Channels[0].Brightness = 255

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("ws281x setup: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("ws281x init: %w", err)
	}
	log.Info().Int("gpio", gpioPin).Int("pixels", NumPixels).Msg("ws281x strip ready")
	return &ws281xStrip{dev: dev, log: log}, nil
}

func (s *ws281xStrip) Render(f Frame) error {
	leds := s.dev.Leds(0)
	for i, c := range f {
		leds[i] = uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	}
	if err := s.dev.Render(); err != nil {
		return fmt.Errorf("ws281x render: %w", err)
	}
	return nil
}

func (s *ws281xStrip) Close() error {
	// Blank the ring before releasing the channel.
	leds := s.dev.Leds(0)
	for i := range leds {
		leds[i] = 0
	}
	s.dev.Render()
	s.dev.Fini()
	return nil
}
