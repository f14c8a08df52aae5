package main

import (
	"math"
	"time"
)

// ==========================================
// RENDER ENGINE
// ==========================================
// Composes the color math and clock geometry into a 60-pixel frame, one
// algorithm per mode. The active mode is read from the config snapshot on
// every frame, so a mode change from the web UI takes effect on the very
// next tick with no transition animation.

const (
	// phaseWrap bounds the animation counter; effects only ever consume
	// the phase modulo a small period so the wrap point is invisible.
	phaseWrap = 1 << 16

	// pulsePeriod is the phase distance of one full breathing cycle.
	pulsePeriod = 120.0

	// pulseFloor keeps the hands faintly visible at the trough of the
	// breathing oscillation.
	pulseFloor = 0.15

	// Hue offsets keeping the three hands visually distinct in rainbow
	// mode, a third of the wheel apart.
	hueOffsetMinute = 85
	hueOffsetSecond = 170
)

// Renderer owns the animation phase counter. The phase advances once per
// frame, scaled by the active mode's speed setting, and is independent of
// wall-clock time.
type Renderer struct {
	phase int
}

func newRenderer() *Renderer {
	return &Renderer{}
}

// Frame computes the next frame for the given config snapshot and time,
// then advances the animation phase.
func (r *Renderer) Frame(cfg Config, now time.Time) Frame {
	hands := handPositions(now)

	var f Frame
	switch cfg.Mode {
	case ModeTrail:
		f = renderTrail(cfg, hands)
	case ModePulse:
		f = r.renderPulse(cfg, hands)
	case ModeRainbow:
		f = r.renderRainbow(cfg, hands)
	default:
		f = renderStandard(cfg, hands)
	}

	for i := range f {
		f[i] = f[i].Scale(cfg.Brightness)
	}

	r.advancePhase(cfg)
	return f
}

func (r *Renderer) advancePhase(cfg Config) {
	step := 1
	switch cfg.Mode {
	case ModePulse:
		step = cfg.PulseSpeed
	case ModeRainbow:
		step = cfg.RainbowSpeed
	}
	r.phase = (r.phase + step) % phaseWrap
}

// paintBase fills the frame with the background color and paints the
// twelve hour-tick markers. Hands are drawn on top, so they always take
// priority over markers.
func paintBase(cfg Config) Frame {
	var f Frame
	for i := range f {
		f[i] = cfg.BackgroundColor
	}
	for i := 0; i < NumPixels; i += 5 {
		f[i] = cfg.MarkerColor
	}
	return f
}

// renderStandard paints each hand directly onto the base frame. Paint
// order hour, minute, second means the second hand visually dominates
// when hands collide.
func renderStandard(cfg Config, hands HandPositions) Frame {
	f := paintBase(cfg)
	f[pixelIndex(hands.Hour)] = cfg.HourColor
	f[pixelIndex(hands.Minute)] = cfg.MinuteColor
	f[pixelIndex(hands.Second)] = cfg.SecondColor
	return f
}

// renderTrail draws each hand with a fading comet tail walking backward
// along the ring. Tails may cover markers and lower-priority tails but
// never a hand pixel.
func renderTrail(cfg Config, hands HandPositions) Frame {
	f := paintBase(cfg)

	var isHand [NumPixels]bool
	paint := func(pos float64, color RGB) {
		p := pixelIndex(pos)
		for k := 1; k <= cfg.TrailLength; k++ {
			idx := ((p-k)%NumPixels + NumPixels) % NumPixels
			if isHand[idx] {
				continue
			}
			t := float64(k) / float64(cfg.TrailLength+1)
			f[idx] = Blend(color, cfg.BackgroundColor, t)
		}
		f[p] = color
		isHand[p] = true
	}

	paint(hands.Hour, cfg.HourColor)
	paint(hands.Minute, cfg.MinuteColor)
	paint(hands.Second, cfg.SecondColor)
	return f
}

// renderPulse is standard rendering with the whole frame breathing: a
// sinusoid of the animation phase, sped up by pulse_speed, modulates the
// frame between pulseFloor and full intensity.
func (r *Renderer) renderPulse(cfg Config, hands HandPositions) Frame {
	f := renderStandard(cfg, hands)
	factor := pulseFloor + (1-pulseFloor)*r.pulseLevel()
	for i := range f {
		f[i] = f[i].Scale(factor)
	}
	return f
}

// pulseLevel returns the current position in the breathing oscillation,
// in [0,1].
func (r *Renderer) pulseLevel() float64 {
	return 0.5 + 0.5*math.Sin(2*math.Pi*float64(r.phase)/pulsePeriod)
}

// renderRainbow paints the hands with wheel colors derived from the
// animation phase, each hand a third of the wheel apart so they stay
// distinguishable.
func (r *Renderer) renderRainbow(cfg Config, hands HandPositions) Frame {
	f := paintBase(cfg)
	hue := uint8(r.phase % 256)
	f[pixelIndex(hands.Hour)] = Wheel(hue)
	f[pixelIndex(hands.Minute)] = Wheel(hue + hueOffsetMinute)
	f[pixelIndex(hands.Second)] = Wheel(hue + hueOffsetSecond)
	return f
}
