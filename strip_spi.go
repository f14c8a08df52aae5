package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// ==========================================
// SPI NZR DRIVER
// ==========================================
// Alternative driver for rings wired to the SPI MOSI pin instead of the
// PWM data GPIO. The NZR bitstream is synthesized at 2.5 MHz, three SPI
// bits per LED bit.

type spiStrip struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	buf  []byte
	log  zerolog.Logger
}

func openSPIStrip(portName string, log zerolog.Logger) (*spiStrip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", portName, err)
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: NumPixels,
		Channels:  3,
		Freq:      2500 * physic.KiloHertz,
	})
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("nrzled setup: %w", err)
	}
	log.Info().Str("port", portName).Int("pixels", NumPixels).Msg("spi strip ready")
	return &spiStrip{
		port: port,
		dev:  dev,
		buf:  make([]byte, NumPixels*3),
		log:  log,
	}, nil
}

func (s *spiStrip) Render(f Frame) error {
	for i, c := range f {
		s.buf[i*3+0] = c.R
		s.buf[i*3+1] = c.G
		s.buf[i*3+2] = c.B
	}
	if _, err := s.dev.Write(s.buf); err != nil {
		return fmt.Errorf("spi render: %w", err)
	}
	return nil
}

func (s *spiStrip) Close() error {
	for i := range s.buf {
		s.buf[i] = 0
	}
	s.dev.Write(s.buf)
	return s.port.Close()
}
