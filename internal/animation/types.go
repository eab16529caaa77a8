// Package animation implements the pure, stateless half of the real-time
// animation runtime (§4.3): the local-time/cycle-mapping clock math, easing
// curves, and multi-track position composition. It holds no playback state
// — the orchestrator package owns playback lifecycle and calls into these
// helpers once per tick.
package animation

import (
	"github.com/google/uuid"

	"holophonix-engine/internal/models"
	"holophonix-engine/internal/track"
	"holophonix-engine/internal/vector"
)

// Easing names one of the four fade curves (§3 FadeCfg).
type Easing string

const (
	EaseLinear    Easing = "linear"
	EaseIn        Easing = "easeIn"
	EaseOut       Easing = "easeOut"
	EaseInOut     Easing = "easeInOut"
)

// Apply maps x∈[0,1] through the named easing curve, clamping x first.
func (e Easing) Apply(x float64) float64 {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	switch e {
	case EaseIn:
		return x * x
	case EaseOut:
		return 1 - (1-x)*(1-x)
	case EaseInOut:
		if x < 0.5 {
			return 2 * x * x
		}
		return 1 - 2*(1-x)*(1-x)
	default:
		return x
	}
}

// FadeCfg configures a fade-in or fade-out envelope.
type FadeCfg struct {
	Duration float64 // seconds, (0,10]
	Easing   Easing
}

// Animation is the authored, reusable motion description (§3).
type Animation struct {
	ID         uuid.UUID
	Name       string
	Duration   float64 // seconds, >0
	Loop       bool
	PingPong   bool // requires Loop
	Model      models.Kind
	Parameters models.Params
	FadeIn     *FadeCfg
	FadeOut    *FadeCfg
}

// ModeKind is one of the five multi-track composition modes (§3).
type ModeKind int

const (
	ModeRelative ModeKind = iota
	ModeBarycentricShared
	ModeBarycentricIso
	ModeBarycentricCentered
	ModeBarycentricCustom
)

// Mode is a multi-track composition mode plus its sequential phase offset.
type Mode struct {
	Kind ModeKind
	// Center is used only by ModeBarycentricCentered.
	Center vector.Position
	// CustomParams is used only by ModeBarycentricCustom: one parameter
	// record per track, keyed by track ID.
	CustomParams map[track.ID]models.Params
	// PhaseOffset is the per-track sequential time shift in seconds (§3).
	PhaseOffset float64
}
