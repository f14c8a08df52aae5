package main

// ==========================================
// COLOR MATH
// ==========================================
// Pure RGB arithmetic used by the renderer: brightness scaling, linear
// blending and the rainbow wheel.

// Scale multiplies each channel by factor and clamps to [0,255], rounding
// down. factor outside [0,1] is clamped first.
func (c RGB) Scale(factor float64) RGB {
	if factor <= 0 {
		return RGB{}
	}
	if factor >= 1 {
		return c
	}
	return RGB{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}

// Blend linearly interpolates from a to b. t=0 yields a, t=1 yields b.
func Blend(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return RGB{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
	}
}

// Wheel maps a position on a 0-255 color wheel to a fully saturated color,
// cycling red -> green -> blue -> red as pos increases.
func Wheel(pos uint8) RGB {
	switch {
	case pos < 85:
		return RGB{R: 255 - pos*3, G: pos * 3, B: 0}
	case pos < 170:
		pos -= 85
		return RGB{R: 0, G: 255 - pos*3, B: pos * 3}
	default:
		pos -= 170
		return RGB{R: pos * 3, G: 0, B: 255 - pos*3}
	}
}
