// Package vector implements the XYZ/AED coordinate kernel: conversions and
// small-vector math shared by every motion model. All functions are total —
// there is no failure mode, only clamping at the documented edge cases.
package vector

import "math"

// Position is a point in meters, in the device's XYZ frame.
type Position struct {
	X, Y, Z float64
}

// AED is azimuth/elevation/distance: azimuth and elevation in degrees,
// distance in meters.
type AED struct {
	Azimuth   float64
	Elevation float64
	Distance  float64
}

// Add returns p+q.
func (p Position) Add(q Position) Position {
	return Position{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p-q.
func (p Position) Sub(q Position) Position {
	return Position{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p scaled by s.
func (p Position) Scale(s float64) Position {
	return Position{p.X * s, p.Y * s, p.Z * s}
}

// IsFinite reports whether all three components are finite (not NaN/Inf).
func (p Position) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// Mean returns the arithmetic mean (barycentre) of ps. Returns the origin
// for an empty slice.
func Mean(ps []Position) Position {
	if len(ps) == 0 {
		return Position{}
	}
	var sum Position
	for _, p := range ps {
		sum = sum.Add(p)
	}
	return sum.Scale(1.0 / float64(len(ps)))
}

// LerpXYZ linearly interpolates between a and b at t.
func LerpXYZ(a, b Position, t float64) Position {
	return Position{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// XYZToAED converts an XYZ position to azimuth/elevation/distance.
// Azimuth is measured from +Y toward +X (0 at "front", increasing clockwise
// when viewed from above), elevation from the XY plane toward +Z.
// The origin maps to AED{0,0,0}.
func XYZToAED(p Position) AED {
	dist := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	if dist < 1e-12 {
		return AED{}
	}
	azimuth := math.Atan2(p.X, p.Y) * 180 / math.Pi
	elevation := math.Asin(clamp(p.Z/dist, -1, 1)) * 180 / math.Pi
	return AED{Azimuth: wrapAzimuth(azimuth), Elevation: elevation, Distance: dist}
}

// AEDToXYZ converts azimuth/elevation/distance back to XYZ.
// Distance 0 always yields the origin regardless of azimuth/elevation.
func AEDToXYZ(a AED) Position {
	if a.Distance <= 0 {
		return Position{}
	}
	azRad := a.Azimuth * math.Pi / 180
	elRad := a.Elevation * math.Pi / 180
	horiz := a.Distance * math.Cos(elRad)
	return Position{
		X: horiz * math.Sin(azRad),
		Y: horiz * math.Cos(azRad),
		Z: a.Distance * math.Sin(elRad),
	}
}

// LerpAED interpolates AED values, taking the shortest arc in azimuth.
func LerpAED(a, b AED, t float64) AED {
	return AED{
		Azimuth:   a.Azimuth + shortestDelta(a.Azimuth, b.Azimuth)*t,
		Elevation: a.Elevation + (b.Elevation-a.Elevation)*t,
		Distance:  a.Distance + (b.Distance-a.Distance)*t,
	}
}

// shortestDelta returns the signed delta from a to b along the shortest
// path around the [-180,180] azimuth circle.
func shortestDelta(a, b float64) float64 {
	d := math.Mod(b-a+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

// AzimuthDelta returns the signed delta from a to b along the shortest path
// around the azimuth circle, for callers outside this package (the OSC
// optimiser needs it to compute wrap-aware incremental azimuth deltas).
func AzimuthDelta(a, b float64) float64 { return shortestDelta(a, b) }

// wrapAzimuth normalises degrees into [-180, 180).
func wrapAzimuth(deg float64) float64 {
	deg = math.Mod(deg+180, 360)
	if deg < 0 {
		deg += 360
	}
	return deg - 180
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RotateXY rotates p by angleDeg degrees around the Z axis (in the XY plane).
func RotateXY(p Position, angleDeg float64) Position {
	rad := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Position{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
		Z: p.Z,
	}
}

// RotateInPlane rotates the offset o by angleDeg within the named plane,
// leaving the orthogonal axis untouched.
func RotateInPlane(o Position, angleDeg float64, plane Plane) Position {
	rad := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	switch plane {
	case PlaneXZ:
		return Position{X: o.X*cos - o.Z*sin, Y: o.Y, Z: o.X*sin + o.Z*cos}
	case PlaneYZ:
		return Position{X: o.X, Y: o.Y*cos - o.Z*sin, Z: o.Y*sin + o.Z*cos}
	default: // PlaneXY
		return Position{X: o.X*cos - o.Y*sin, Y: o.X*sin + o.Y*cos, Z: o.Z}
	}
}

// Plane names one of the three principal planes a planar model can be
// projected into.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

// Project places a 2-D (u,v) point into the named plane, with the
// orthogonal axis held at center's value on that axis.
func Project(center Position, u, v float64, plane Plane) Position {
	switch plane {
	case PlaneXZ:
		return Position{X: center.X + u, Y: center.Y, Z: center.Z + v}
	case PlaneYZ:
		return Position{X: center.X, Y: center.Y + u, Z: center.Z + v}
	default: // PlaneXY
		return Position{X: center.X + u, Y: center.Y + v, Z: center.Z}
	}
}
