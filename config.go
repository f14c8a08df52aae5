package main

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ==========================================
// CONFIG STORE
// ==========================================
// Store persists the configuration as a JSON file next to the binary.
// Loading is forgiving: a missing file, a malformed file or missing keys
// all resolve to defaults for the affected values, and the merged result
// is written straight back so the file on disk is always complete and
// parseable for the next boot.

type Store struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "config").Logger(),
	}
}

// settingsMap flattens a Config into viper-friendly primitives. Colors
// become 3-int arrays and the mode becomes its string name, matching the
// JSON representation the web API uses.
func settingsMap(c Config) map[string]any {
	rgb := func(v RGB) []int { return []int{int(v.R), int(v.G), int(v.B)} }
	return map[string]any{
		"mode":             c.Mode.String(),
		"hour_color":       rgb(c.HourColor),
		"minute_color":     rgb(c.MinuteColor),
		"second_color":     rgb(c.SecondColor),
		"marker_color":     rgb(c.MarkerColor),
		"background_color": rgb(c.BackgroundColor),
		"brightness":       c.Brightness,
		"trail_length":     c.TrailLength,
		"pulse_speed":      c.PulseSpeed,
		"rainbow_speed":    c.RainbowSpeed,
		"wifi_ssid":        c.WifiSSID,
		"wifi_password":    c.WifiPassword,
		"ap_ssid":          c.APSSID,
		"ap_password":      c.APPassword,
		"listen_addr":      c.ListenAddr,
		"wifi_interface":   c.WifiInterface,
		"led_driver":       c.LedDriver,
		"led_gpio_pin":     c.LedGpioPin,
		"led_spi_port":     c.LedSpiPort,
		"timezone":         c.Timezone,
	}
}

// decodeHook handles the two non-primitive config values: RGB triples
// stored as JSON arrays and the mode stored as its string name.
func decodeHook() viper.DecoderConfigOption {
	rgbHook := func(from, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(RGB{}) {
			return data, nil
		}
		// File values arrive as []any of float64, injected defaults as
		// the []int settingsMap produces. Both must decode, otherwise a
		// partial file would fail the whole unmarshal and lose every
		// value it does contain.
		var raw []any
		switch v := data.(type) {
		case []any:
			raw = v
		case []int:
			raw = make([]any, len(v))
			for i, n := range v {
				raw[i] = n
			}
		}
		if len(raw) != 3 {
			return data, fmt.Errorf("color must be a 3-element array, got %v", data)
		}
		var c RGB
		dst := []*uint8{&c.R, &c.G, &c.B}
		for i, v := range raw {
			f, ok := v.(float64)
			if !ok {
				if n, isInt := v.(int); isInt {
					f = float64(n)
				} else {
					return data, fmt.Errorf("color channel %d is not a number: %v", i, v)
				}
			}
			if f < 0 {
				f = 0
			}
			if f > 255 {
				f = 255
			}
			*dst[i] = uint8(f)
		}
		return c, nil
	}
	modeHook := func(from, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(Mode(0)) || from.Kind() != reflect.String {
			return data, nil
		}
		return ParseMode(data.(string))
	}
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(rgbHook, modeHook))
}

// Load reads the config file, merging it over defaults, and rewrites the
// file so it is fully populated. It never fails the boot: unreadable or
// invalid content falls back to defaults.
func (s *Store) Load() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	for key, val := range settingsMap(defaultConfig()) {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			s.log.Info().Str("path", s.path).Msg("no config file, using defaults")
		} else {
			s.log.Warn().Err(err).Str("path", s.path).Msg("config unreadable, using defaults")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		s.log.Warn().Err(err).Msg("config invalid, using defaults")
		cfg = defaultConfig()
	}
	clampConfig(&cfg)

	if err := s.writeLocked(cfg); err != nil {
		s.log.Warn().Err(err).Msg("could not rewrite config file")
	}
	return cfg
}

// Save persists the given config, replacing the file contents.
func (s *Store) Save(c Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(c)
}

func (s *Store) writeLocked(c Config) error {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	for key, val := range settingsMap(c) {
		v.Set(key, val)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// clampConfig forces every numeric setting into its valid range. Values
// from the file or the API are clamped, never rejected.
func clampConfig(c *Config) {
	if c.Brightness < 0 {
		c.Brightness = 0
	}
	if c.Brightness > 1 {
		c.Brightness = 1
	}
	c.TrailLength = clampInt(c.TrailLength, 1, 10)
	c.PulseSpeed = clampInt(c.PulseSpeed, 1, 10)
	c.RainbowSpeed = clampInt(c.RainbowSpeed, 1, 10)
	switch c.LedDriver {
	case "pwm", "spi", "off":
	default:
		c.LedDriver = "pwm"
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
