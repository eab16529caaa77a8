package animation

import (
	"math"
	"time"
)

// LocalTime computes an animation's local elapsed time L, in seconds, from
// the playback's monotonic start time, accumulated pause duration, and
// speed multiplier (§4.3).
func LocalTime(now, startedAt time.Time, pausedAccum time.Duration, speed float64) float64 {
	elapsed := now.Sub(startedAt) - pausedAccum
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed.Seconds() * speed
}

// CycleMap maps local time L against an animation of duration D into a
// normalised progress t∈[0,1] and reports whether a non-looping animation
// has completed (§4.3: non-loop clamps and completes, loop wraps, pingPong
// bounces).
func CycleMap(L, D float64, loop, pingPong bool) (t float64, completed bool) {
	if D <= 0 {
		return 1, true
	}
	if !loop {
		if L >= D {
			return 1, true
		}
		return clamp01(L / D), false
	}
	if !pingPong {
		return fract(L / D), false
	}
	period := 2 * D
	u := fract(L / period)
	if u <= 0.5 {
		return clamp01(2 * u), false
	}
	return clamp01(2 * (1 - u)), false
}

// CyclesElapsed returns how many full cycles L has completed: periods of D,
// or, with pingPong, periods of 2D (one forward-and-back round trip).
func CyclesElapsed(L, D float64, pingPong bool) int {
	if D <= 0 {
		return 0
	}
	period := D
	if pingPong {
		period = 2 * D
	}
	return int(math.Floor(L / period))
}

func fract(x float64) float64 {
	f := x - math.Floor(x)
	if f < 0 {
		f += 1
	}
	return f
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
