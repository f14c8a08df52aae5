package main

import (
	"encoding/json"
	"fmt"
)

// ==========================================
// DATA STRUCTURES
// ==========================================

// NumPixels is the number of LEDs on the ring. One full turn of the ring
// is one minute of arc per pixel for the minute/second hands and twelve
// minutes per pixel for the hour hand.
const NumPixels = 60

// RGB is a single pixel color, one byte per channel. It serializes as a
// 3-element JSON array ([255,0,0]) to stay compatible with the stored
// config file and the web UI.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]uint8{c.R, c.G, c.B})
}

func (c *RGB) UnmarshalJSON(data []byte) error {
	var arr [3]uint8
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("rgb triple: %w", err)
	}
	c.R, c.G, c.B = arr[0], arr[1], arr[2]
	return nil
}

// Mode selects the rendering algorithm for the clock face.
type Mode uint8

const (
	ModeStandard Mode = iota
	ModeTrail
	ModePulse
	ModeRainbow
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeTrail:
		return "trail"
	case ModePulse:
		return "pulse"
	case ModeRainbow:
		return "rainbow"
	default:
		return "unknown"
	}
}

// ParseMode maps the config file spelling to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "standard":
		return ModeStandard, nil
	case "trail":
		return ModeTrail, nil
	case "pulse":
		return ModePulse, nil
	case "rainbow":
		return ModeRainbow, nil
	default:
		return ModeStandard, fmt.Errorf("unknown mode %q", s)
	}
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Config is the full device configuration. The stored file is always fully
// populated: missing keys are filled from defaults on load and the merged
// result is immediately written back.
type Config struct {
	Mode            Mode    `json:"mode" mapstructure:"mode"`
	HourColor       RGB     `json:"hour_color" mapstructure:"hour_color"`
	MinuteColor     RGB     `json:"minute_color" mapstructure:"minute_color"`
	SecondColor     RGB     `json:"second_color" mapstructure:"second_color"`
	MarkerColor     RGB     `json:"marker_color" mapstructure:"marker_color"`
	BackgroundColor RGB     `json:"background_color" mapstructure:"background_color"`
	Brightness      float64 `json:"brightness" mapstructure:"brightness"`
	TrailLength     int     `json:"trail_length" mapstructure:"trail_length"`
	PulseSpeed      int     `json:"pulse_speed" mapstructure:"pulse_speed"`
	RainbowSpeed    int     `json:"rainbow_speed" mapstructure:"rainbow_speed"`

	WifiSSID     string `json:"wifi_ssid" mapstructure:"wifi_ssid"`
	WifiPassword string `json:"wifi_password" mapstructure:"wifi_password"`
	APSSID       string `json:"ap_ssid" mapstructure:"ap_ssid"`
	APPassword   string `json:"ap_password" mapstructure:"ap_password"`

	// Deployment settings, not exposed in the web UI.
	ListenAddr    string `json:"listen_addr" mapstructure:"listen_addr"`
	WifiInterface string `json:"wifi_interface" mapstructure:"wifi_interface"`
	LedDriver     string `json:"led_driver" mapstructure:"led_driver"` // "pwm", "spi" or "off"
	LedGpioPin    int    `json:"led_gpio_pin" mapstructure:"led_gpio_pin"`
	LedSpiPort    string `json:"led_spi_port" mapstructure:"led_spi_port"`
	Timezone      string `json:"timezone" mapstructure:"timezone"`
}

func defaultConfig() Config {
	return Config{
		Mode:            ModeStandard,
		HourColor:       RGB{255, 0, 0},
		MinuteColor:     RGB{0, 255, 0},
		SecondColor:     RGB{0, 0, 255},
		MarkerColor:     RGB{32, 32, 32},
		BackgroundColor: RGB{0, 0, 0},
		Brightness:      0.2,
		TrailLength:     3,
		PulseSpeed:      5,
		RainbowSpeed:    5,
		WifiSSID:        "",
		WifiPassword:    "",
		APSSID:          "LEDClock",
		APPassword:      "clockconfig",
		ListenAddr:      ":80",
		WifiInterface:   "wlan0",
		LedDriver:       "pwm",
		LedGpioPin:      18,
		LedSpiPort:      "",
		Timezone:        "",
	}
}

// Frame is one complete picture for the ring, recomputed every tick and
// never persisted.
type Frame [NumPixels]RGB
