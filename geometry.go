package main

import (
	"math"
	"time"
)

// ==========================================
// CLOCK GEOMETRY
// ==========================================
// Maps a time of day to fractional pixel positions on the 60-pixel ring.
// The ring represents one full rotation per 12 hours for the hour hand and
// per 60 minutes/seconds for the minute and second hands.

// HandPositions holds the fractional ring positions of the three hands,
// each in [0,60) with wraparound.
type HandPositions struct {
	Hour   float64
	Minute float64
	Second float64
}

// handPositions computes the hand positions for t. The hour hand advances
// smoothly with the minutes and seconds (5 pixels per hour, not 5-pixel
// jumps). The minute hand steps once per minute and the second hand once
// per second, with sub-second input contributing fractionally.
func handPositions(t time.Time) HandPositions {
	h, m, s := t.Hour(), t.Minute(), t.Second()
	frac := float64(t.Nanosecond()) / float64(time.Second)

	return HandPositions{
		Hour:   math.Mod(float64(h%12)*5+float64(m)/12+float64(s)/720, NumPixels),
		Minute: float64(m),
		Second: math.Mod(float64(s)+frac, NumPixels),
	}
}

// pixelIndex rounds a fractional ring position to its nearest physical
// pixel, wrapping at the top of the ring.
func pixelIndex(pos float64) int {
	return int(math.Round(pos)) % NumPixels
}
