package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	c := defaultConfig()
	c.Brightness = 1.0 // keep colors exact in assertions
	return c
}

func TestRenderStandard(t *testing.T) {
	cfg := testConfig()
	r := newRenderer()
	f := r.Frame(cfg, at(3, 15, 30))

	assert.Equal(t, cfg.HourColor, f[16], "hour hand")
	assert.Equal(t, cfg.MinuteColor, f[15], "minute hand")
	assert.Equal(t, cfg.SecondColor, f[30], "second hand")

	for i := range f {
		switch i {
		case 15, 16, 30:
		default:
			if i%5 == 0 {
				assert.Equal(t, cfg.MarkerColor, f[i], "marker pixel %d", i)
			} else {
				assert.Equal(t, cfg.BackgroundColor, f[i], "background pixel %d", i)
			}
		}
	}
}

func TestRenderStandardHandCoversMarker(t *testing.T) {
	cfg := testConfig()
	// At 12:00:00 all three hands sit on pixel 0, a marker position. The
	// second hand wins the collision and the marker is hidden.
	f := newRenderer().Frame(cfg, at(12, 0, 0))
	assert.Equal(t, cfg.SecondColor, f[0])
}

func TestRenderBrightnessAppliedLast(t *testing.T) {
	cfg := testConfig()
	cfg.Brightness = 0.5
	f := newRenderer().Frame(cfg, at(3, 15, 30))
	assert.Equal(t, cfg.SecondColor.Scale(0.5), f[30])
	assert.Equal(t, cfg.MarkerColor.Scale(0.5), f[0])
}

func TestRenderTrail(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = ModeTrail
	cfg.TrailLength = 3
	cfg.SecondColor = RGB{0, 0, 255}
	cfg.BackgroundColor = RGB{0, 0, 0}

	f := newRenderer().Frame(cfg, at(6, 50, 40))

	require.Equal(t, cfg.SecondColor, f[40], "hand pixel undimmed")

	// Exactly TrailLength pixels behind the hand, strictly fading.
	prev := int(f[40].B)
	for k := 1; k <= 3; k++ {
		cur := int(f[40-k].B)
		assert.Greater(t, cur, 0, "trail pixel %d lit", 40-k)
		assert.Less(t, cur, prev, "trail pixel %d dimmer than predecessor", 40-k)
		prev = cur
	}
	assert.Equal(t, cfg.BackgroundColor, f[36], "pixel past the trail untouched")
}

func TestRenderTrailWrapsRingStart(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = ModeTrail
	cfg.TrailLength = 3
	// Second hand at pixel 1: trail occupies 0, 59, 58.
	f := newRenderer().Frame(cfg, at(6, 40, 1))
	assert.Equal(t, cfg.SecondColor, f[1])
	for _, idx := range []int{0, 59, 58} {
		assert.NotEqual(t, cfg.BackgroundColor, f[idx], "wrapped trail pixel %d", idx)
	}
}

func TestRenderTrailNeverOverwritesHand(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = ModeTrail
	cfg.TrailLength = 5
	// 00:00:03: second hand at 3, its trail walks back across the hour
	// and minute hands at 0. The hand pixel must survive.
	f := newRenderer().Frame(cfg, at(0, 0, 3))
	assert.Equal(t, cfg.MinuteColor, f[0], "earlier hand survives a later trail")
}

func TestRenderPulse(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = ModePulse
	cfg.PulseSpeed = 1

	r := newRenderer()
	var levels []int
	for i := 0; i < int(pulsePeriod); i++ {
		f := r.Frame(cfg, at(3, 15, 30))
		levels = append(levels, int(f[30].B))
	}

	min, max := levels[0], levels[0]
	for _, v := range levels {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	assert.Greater(t, max, min, "intensity oscillates")
	assert.Greater(t, min, 0, "trough stays above the visibility floor")
	assert.Equal(t, 255, max, "crest reaches full intensity")
}

func TestRenderRainbow(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = ModeRainbow
	cfg.HourColor = RGB{10, 20, 30}

	f := newRenderer().Frame(cfg, at(3, 15, 30))

	hour, minute, second := f[16], f[15], f[30]
	assert.NotEqual(t, hour, minute)
	assert.NotEqual(t, minute, second)
	assert.NotEqual(t, hour, second)

	// Configured hand colors are ignored in rainbow mode.
	assert.NotEqual(t, cfg.HourColor, hour)
}

func TestRenderRainbowPhaseAdvances(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = ModeRainbow
	cfg.RainbowSpeed = 5

	r := newRenderer()
	first := r.Frame(cfg, at(3, 15, 30))
	second := r.Frame(cfg, at(3, 15, 30))
	assert.NotEqual(t, first[16], second[16], "hue moves between frames")
}

func TestModeSwitchTakesEffectNextFrame(t *testing.T) {
	cfg := testConfig()
	r := newRenderer()

	f := r.Frame(cfg, at(3, 15, 30))
	assert.Equal(t, cfg.SecondColor, f[30])

	cfg.Mode = ModeRainbow
	f = r.Frame(cfg, at(3, 15, 30))
	assert.NotEqual(t, cfg.SecondColor, f[30])
}
