package models

import (
	"math"

	"holophonix-engine/internal/vector"
)

// RandomParams wanders inside a box of Extent around Center using
// deterministic per-axis value noise seeded by Seed, so repeated Evaluate
// calls with the same t are reproducible (the model must be a pure
// function — "random" only in appearance).
type RandomParams struct {
	Center vector.Position
	Extent vector.Position
	Seed   int64
	Speed  float64
}

func (RandomParams) Kind() Kind { return Random }

func (p RandomParams) Evaluate(t float64) vector.Position {
	speed := p.Speed
	if speed <= 0 {
		speed = 1
	}
	x := valueNoise1D(t*speed*7, p.Seed+1)
	y := valueNoise1D(t*speed*7, p.Seed+2)
	z := valueNoise1D(t*speed*7, p.Seed+3)
	return vector.Position{
		X: p.Center.X + x*p.Extent.X,
		Y: p.Center.Y + y*p.Extent.Y,
		Z: p.Center.Z + z*p.Extent.Z,
	}
}

func (p RandomParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}}
}

// PerlinNoiseParams wanders smoothly inside a box using a single octave of
// deterministic value noise per axis.
type PerlinNoiseParams struct {
	Center vector.Position
	Extent vector.Position
	Speed  float64
	Seed   int64
}

func (PerlinNoiseParams) Kind() Kind { return PerlinNoise }

func (p PerlinNoiseParams) Evaluate(t float64) vector.Position {
	speed := p.Speed
	if speed <= 0 {
		speed = 1
	}
	x := valueNoise1D(t*speed*3, p.Seed+11)
	y := valueNoise1D(t*speed*3, p.Seed+13)
	z := valueNoise1D(t*speed*3, p.Seed+17)
	return vector.Position{
		X: p.Center.X + x*p.Extent.X,
		Y: p.Center.Y + y*p.Extent.Y,
		Z: p.Center.Z + z*p.Extent.Z,
	}
}

func (p PerlinNoiseParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}}
}

// hash is a deterministic integer hash returning a value in [-1,1], the
// classic Perlin-style scrambling function.
func hash(n int64) float64 {
	n = (n << 13) ^ n
	m := (n*(n*n*15731+789221) + 1376312589) & 0x7fffffff
	return 1.0 - float64(m)/1073741824.0
}

// valueNoise1D is smoothstep-interpolated value noise over integer lattice
// points, seeded so distinct axes/seeds produce independent sequences.
func valueNoise1D(x float64, seed int64) float64 {
	xi := int64(math.Floor(x))
	xf := x - float64(xi)
	a := hash(xi + seed*1000003)
	b := hash(xi + 1 + seed*1000003)
	u := xf * xf * (3 - 2*xf)
	return a + u*(b-a)
}

// RoseCurveParams traces a rose (rhodonea) curve r = Radius*cos(PetalRatio*θ).
type RoseCurveParams struct {
	Center     vector.Position
	Radius     float64
	PetalRatio float64
	Plane      Plane
}

func (RoseCurveParams) Kind() Kind { return RoseCurve }

func (p RoseCurveParams) Evaluate(t float64) vector.Position {
	theta := t * 2 * math.Pi
	r := clampMin(p.Radius, 0) * math.Cos(p.PetalRatio*theta)
	return vector.Project(p.Center, r*math.Cos(theta), r*math.Sin(theta), p.Plane)
}

func (p RoseCurveParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}}
}

// EpicycloidParams traces the path of a point on a circle of RollingRadius
// rolling around the outside of a fixed circle of FixedRadius.
type EpicycloidParams struct {
	Center                    vector.Position
	FixedRadius, RollingRadius float64
	Plane                     Plane
}

func (EpicycloidParams) Kind() Kind { return Epicycloid }

func (p EpicycloidParams) Evaluate(t float64) vector.Position {
	theta := t * 2 * math.Pi
	R := clampMin(p.FixedRadius, 0.01)
	r := clampMin(p.RollingRadius, 0.01)
	k := (R + r) / r
	u := (R+r)*math.Cos(theta) - r*math.Cos(k*theta)
	v := (R+r)*math.Sin(theta) - r*math.Sin(k*theta)
	return vector.Project(p.Center, u, v, p.Plane)
}

func (p EpicycloidParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}}
}
