package models

import (
	"math"

	"holophonix-engine/internal/vector"
)

// PendulumParams swings about Pivot with a fixed AmplitudeDeg, one full
// swing (there and back) per cycle.
type PendulumParams struct {
	Pivot        vector.Position
	Length       float64
	AmplitudeDeg float64
	Plane        Plane
}

func (PendulumParams) Kind() Kind { return Pendulum }

func (p PendulumParams) Evaluate(t float64) vector.Position {
	angle := p.AmplitudeDeg * math.Sin(2*math.Pi*t)
	rad := angle * math.Pi / 180
	l := clampMin(p.Length, 0.01)
	u := l * math.Sin(rad)
	v := -l * math.Cos(rad)
	return vector.Project(p.Pivot, u, v, p.Plane)
}

func (p PendulumParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"pivot", p.Pivot}, {"rest", p.Evaluate(0.25)}}
}

// BounceParams travels Start->End with a ballistic-style bounce envelope
// decaying over Bounces bounces.
type BounceParams struct {
	Start, End vector.Position
	Height     float64
	Bounces    int
}

func (BounceParams) Kind() Kind { return Bounce }

func (p BounceParams) Evaluate(t float64) vector.Position {
	base := vector.LerpXYZ(p.Start, p.End, t)
	n := p.Bounces
	if n < 1 {
		n = 1
	}
	phase := t * float64(n)
	cycle := phase - math.Floor(phase)
	decay := math.Pow(0.6, math.Floor(phase))
	bounceZ := clampMin(p.Height, 0) * decay * math.Sin(math.Pi*cycle)
	base.Z += bounceZ
	return base
}

func (p BounceParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"start", p.Start}, {"end", p.End}}
}

// SpringParams oscillates around Rest with exponentially damped amplitude.
type SpringParams struct {
	Rest      vector.Position
	Amplitude vector.Position
	Frequency float64
	Damping   float64
}

func (SpringParams) Kind() Kind { return Spring }

func (p SpringParams) Evaluate(t float64) vector.Position {
	damping := clampMin(p.Damping, 0)
	env := math.Exp(-damping * t)
	osc := math.Sin(2 * math.Pi * p.Frequency * t)
	return vector.Position{
		X: p.Rest.X + p.Amplitude.X*env*osc,
		Y: p.Rest.Y + p.Amplitude.Y*env*osc,
		Z: p.Rest.Z + p.Amplitude.Z*env*osc,
	}
}

func (p SpringParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"rest", p.Rest}, {"start", p.Evaluate(0)}}
}

// WaveParams travels Start->End while oscillating transversely with
// Amplitude and Frequency cycles over the full traversal.
type WaveParams struct {
	Start, End        vector.Position
	Amplitude         float64
	Frequency         float64
	Axis              Plane
}

func (WaveParams) Kind() Kind { return Wave }

func (p WaveParams) Evaluate(t float64) vector.Position {
	base := vector.LerpXYZ(p.Start, p.End, t)
	offset := p.Amplitude * math.Sin(2*math.Pi*p.Frequency*t)
	switch p.Axis {
	case PlaneYZ, PlaneXZ:
		base.Z += offset
	default:
		base.Z += offset
	}
	return base
}

func (p WaveParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"start", p.Start}, {"end", p.End}}
}

// LissajousParams traces a Lissajous figure in a plane around Center.
type LissajousParams struct {
	Center               vector.Position
	AmplitudeA, AmplitudeB float64
	FreqA, FreqB         float64
	Phase                float64 // degrees
	Plane                Plane
}

func (LissajousParams) Kind() Kind { return Lissajous }

func (p LissajousParams) Evaluate(t float64) vector.Position {
	phase := p.Phase * math.Pi / 180
	u := p.AmplitudeA * math.Sin(2*math.Pi*p.FreqA*t+phase)
	v := p.AmplitudeB * math.Sin(2*math.Pi*p.FreqB*t)
	return vector.Project(p.Center, u, v, p.Plane)
}

func (p LissajousParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}}
}
