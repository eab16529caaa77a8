package animation

import "holophonix-engine/internal/vector"

// FadeInFactor returns the fade-in blend factor in [0,1] given L seconds of
// playback-local time since the start (the animation clock itself holds at
// zero until the fade-in ends, §4.3). A nil or zero-duration cfg is an
// immediate, full-strength start.
func FadeInFactor(cfg *FadeCfg, L float64) float64 {
	if cfg == nil || cfg.Duration <= 0 {
		return 1
	}
	return cfg.Easing.Apply(L / cfg.Duration)
}

// FadeOutFactor returns the fade-out blend factor in [0,1] given Lout
// seconds elapsed since the fade-out began — its own clock, independent of
// the animation's and unaffected by speed (§4.3). done reports whether the
// fade has fully completed.
func FadeOutFactor(cfg *FadeCfg, Lout float64) (factor float64, done bool) {
	if cfg == nil || cfg.Duration <= 0 {
		return 1, true
	}
	x := Lout / cfg.Duration
	if x >= 1 {
		return 1, true
	}
	return cfg.Easing.Apply(x), false
}

// Blend linearly interpolates from origin to target by factor∈[0,1].
func Blend(origin, target vector.Position, factor float64) vector.Position {
	return vector.LerpXYZ(origin, target, factor)
}
