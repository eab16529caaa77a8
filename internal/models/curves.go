package models

import (
	"math"

	"holophonix-engine/internal/vector"
)

// HelixParams winds Turns times around Center while climbing Height along
// the axis orthogonal to Axis's plane.
type HelixParams struct {
	Center       vector.Position
	Radius       float64
	Turns        float64
	Height       float64
	Axis         Plane
}

func (HelixParams) Kind() Kind { return Helix }

func (p HelixParams) Evaluate(t float64) vector.Position {
	theta := 2 * math.Pi * p.Turns * t
	r := clampMin(p.Radius, 0)
	base := vector.Project(p.Center, r*math.Cos(theta), r*math.Sin(theta), p.Axis)
	switch p.Axis {
	case PlaneXZ:
		base.Y += p.Height * t
	case PlaneYZ:
		base.X += p.Height * t
	default:
		base.Z += p.Height * t
	}
	return base
}

func (p HelixParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}, {"end", p.Evaluate(1)}}
}

// BezierParams is a cubic Bezier curve through four control points.
type BezierParams struct {
	P0, P1, P2, P3 vector.Position
}

func (BezierParams) Kind() Kind { return Bezier }

func (p BezierParams) Evaluate(t float64) vector.Position {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return vector.Position{
		X: a*p.P0.X + b*p.P1.X + c*p.P2.X + d*p.P3.X,
		Y: a*p.P0.Y + b*p.P1.Y + c*p.P2.Y + d*p.P3.Y,
		Z: a*p.P0.Z + b*p.P1.Z + c*p.P2.Z + d*p.P3.Z,
	}
}

func (p BezierParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"p0", p.P0}, {"p1", p.P1}, {"p2", p.P2}, {"p3", p.P3}}
}

// CatmullRomParams is a uniform Catmull-Rom spline through Points, optionally
// Closed into a loop, with Tension in [0,1] (0 = loosest).
type CatmullRomParams struct {
	Points  []vector.Position
	Closed  bool
	Tension float64
}

func (CatmullRomParams) Kind() Kind { return CatmullRom }

func (p CatmullRomParams) Evaluate(t float64) vector.Position {
	n := len(p.Points)
	if n == 0 {
		return vector.Position{}
	}
	if n == 1 {
		return p.Points[0]
	}
	segments := n
	if !p.Closed {
		segments = n - 1
	}
	scaled := t * float64(segments)
	seg := int(math.Floor(scaled))
	if seg >= segments {
		seg = segments - 1
	}
	localT := scaled - float64(seg)

	at := func(i int) vector.Position {
		if p.Closed {
			return p.Points[((i%n)+n)%n]
		}
		if i < 0 {
			return p.Points[0]
		}
		if i >= n {
			return p.Points[n-1]
		}
		return p.Points[i]
	}

	p0, p1, p2, p3 := at(seg-1), at(seg), at(seg+1), at(seg+2)
	alpha := (1 - clampf(p.Tension, 0, 1)) * 0.5
	return catmullRomPoint(p0, p1, p2, p3, localT, alpha)
}

func catmullRomPoint(p0, p1, p2, p3 vector.Position, t, alpha float64) vector.Position {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	comp := func(a, b, c, d float64) float64 {
		// Hermite segment from b to c with tangents alpha*(c-a) and alpha*(d-b).
		return h00*b + h10*alpha*(c-a) + h01*c + h11*alpha*(d-b)
	}
	return vector.Position{
		X: comp(p0.X, p1.X, p2.X, p3.X),
		Y: comp(p0.Y, p1.Y, p2.Y, p3.Y),
		Z: comp(p0.Z, p1.Z, p2.Z, p3.Z),
	}
}

func (p CatmullRomParams) ControlPoints() []ControlPoint {
	out := make([]ControlPoint, len(p.Points))
	for i, pt := range p.Points {
		out[i] = ControlPoint{Name: "point", Position: pt}
	}
	return out
}

// ZigzagParams travels Start->End along Segments straight sub-segments that
// alternate Amplitude above/below the direct line.
type ZigzagParams struct {
	Start, End vector.Position
	Amplitude  float64
	Segments   int
	Plane      Plane
}

func (ZigzagParams) Kind() Kind { return Zigzag }

func (p ZigzagParams) Evaluate(t float64) vector.Position {
	base := vector.LerpXYZ(p.Start, p.End, t)
	segs := p.Segments
	if segs < 1 {
		segs = 1
	}
	phase := t*float64(segs) + 0.75 // shifted so the wave is 0 at t=0 and t=1
	tri := 2*math.Abs(phase-math.Floor(phase)-0.5) - 0.5 // triangle wave in [-0.5,0.5]
	base.Z += p.Amplitude * 2 * tri
	return base
}

func (p ZigzagParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"start", p.Start}, {"end", p.End}}
}
