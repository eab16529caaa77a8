package models

import (
	"math"

	"holophonix-engine/internal/vector"
)

// LinearParams moves in a straight line from Start to End.
type LinearParams struct {
	Start, End vector.Position
}

func (LinearParams) Kind() Kind { return Linear }

func (p LinearParams) Evaluate(t float64) vector.Position {
	return vector.LerpXYZ(p.Start, p.End, t)
}

func (p LinearParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"start", p.Start}, {"end", p.End}}
}

// CircularParams traces an arc of a circle in one of the three planes.
type CircularParams struct {
	Center               vector.Position
	Radius               float64
	StartAngle, EndAngle float64 // degrees
	Plane                Plane
}

func (CircularParams) Kind() Kind { return Circular }

// Angle returns the instantaneous angle (degrees) at t, exported so
// barycentric rotation can derive the model's effective rotation (§4.3).
func (p CircularParams) Angle(t float64) float64 {
	return p.StartAngle + (p.EndAngle-p.StartAngle)*t
}

func (p CircularParams) Evaluate(t float64) vector.Position {
	r := clampMin(p.Radius, 0)
	theta := p.Angle(t) * math.Pi / 180
	return vector.Project(p.Center, r*math.Cos(theta), r*math.Sin(theta), p.Plane)
}

func (p CircularParams) ControlPoints() []ControlPoint {
	return []ControlPoint{
		{"center", p.Center},
		{"start", p.Evaluate(0)},
		{"end", p.Evaluate(1)},
	}
}

// EllipticalParams traces an arc of an ellipse.
type EllipticalParams struct {
	Center               vector.Position
	RadiusA, RadiusB     float64
	StartAngle, EndAngle float64
	Plane                Plane
}

func (EllipticalParams) Kind() Kind { return Elliptical }

func (p EllipticalParams) Evaluate(t float64) vector.Position {
	theta := (p.StartAngle + (p.EndAngle-p.StartAngle)*t) * math.Pi / 180
	a, b := clampMin(p.RadiusA, 0), clampMin(p.RadiusB, 0)
	return vector.Project(p.Center, a*math.Cos(theta), b*math.Sin(theta), p.Plane)
}

func (p EllipticalParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}, {"end", p.Evaluate(1)}}
}

// SpiralParams traces an Archimedean spiral: radius grows linearly with t
// while angle sweeps Turns full revolutions.
type SpiralParams struct {
	Center                  vector.Position
	StartRadius, EndRadius  float64
	Turns                   float64
	Plane                   Plane
}

func (SpiralParams) Kind() Kind { return Spiral }

// Angle returns the instantaneous sweep angle (degrees) at t.
func (p SpiralParams) Angle(t float64) float64 {
	return p.Turns * 360 * t
}

func (p SpiralParams) Evaluate(t float64) vector.Position {
	r := clampMin(p.StartRadius, 0) + (clampMin(p.EndRadius, 0)-clampMin(p.StartRadius, 0))*t
	theta := p.Angle(t) * math.Pi / 180
	return vector.Project(p.Center, r*math.Cos(theta), r*math.Sin(theta), p.Plane)
}

func (p SpiralParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}, {"end", p.Evaluate(1)}}
}
