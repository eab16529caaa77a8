package models

import (
	"math"

	"holophonix-engine/internal/vector"
)

// OrbitParams traces a circle tilted out of Plane by Inclination degrees,
// approximating a 3-D orbital path around Center.
type OrbitParams struct {
	Center      vector.Position
	Radius      float64
	Inclination float64 // degrees, tilt of the orbital plane
	Plane       Plane
}

func (OrbitParams) Kind() Kind { return Orbit }

// Angle returns the instantaneous orbital angle (degrees) at t.
func (p OrbitParams) Angle(t float64) float64 {
	return t * 360
}

func (p OrbitParams) Evaluate(t float64) vector.Position {
	theta := p.Angle(t) * math.Pi / 180
	incl := p.Inclination * math.Pi / 180
	r := clampMin(p.Radius, 0)
	u := r * math.Cos(theta)
	v := r * math.Sin(theta) * math.Cos(incl)
	pos := vector.Project(p.Center, u, v, p.Plane)
	tilt := r * math.Sin(theta) * math.Sin(incl)
	switch p.Plane {
	case PlaneXZ:
		pos.Y += tilt
	case PlaneYZ:
		pos.X += tilt
	default:
		pos.Z += tilt
	}
	return pos
}

func (p OrbitParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}}
}

// FormationParams is the simple circular drift a formation's shared
// reference point follows; per-track offsets are applied by the multi-track
// runtime (§4.3), not by this model.
type FormationParams struct {
	Center      vector.Position
	Radius      float64
	RotationDeg float64
}

func (FormationParams) Kind() Kind { return Formation }

func (p FormationParams) Angle(t float64) float64 {
	return t * p.RotationDeg
}

func (p FormationParams) Evaluate(t float64) vector.Position {
	theta := p.Angle(t) * math.Pi / 180
	r := clampMin(p.Radius, 0)
	return vector.Project(p.Center, r*math.Cos(theta), r*math.Sin(theta), PlaneXY)
}

func (p FormationParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}}
}

// AttractRepelParams moves from Start toward (or away from, if Repel) Target
// with an ease governed by Strength.
type AttractRepelParams struct {
	Start, Target vector.Position
	Strength      float64
	Repel         bool
}

func (AttractRepelParams) Kind() Kind { return AttractRepel }

func (p AttractRepelParams) Evaluate(t float64) vector.Position {
	strength := clampf(p.Strength, 0.01, 10)
	eased := 1 - math.Pow(1-t, strength)
	if p.Repel {
		dir := p.Start.Sub(p.Target)
		return p.Start.Add(dir.Scale(eased))
	}
	return vector.LerpXYZ(p.Start, p.Target, eased)
}

func (p AttractRepelParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"start", p.Start}, {"target", p.Target}}
}

// DopplerParams travels in a straight line Start->End passing PassDistance
// from the listener's reference axis, for simulating a doppler-style flyby.
type DopplerParams struct {
	Start, End   vector.Position
	PassDistance float64
}

func (DopplerParams) Kind() Kind { return Doppler }

func (p DopplerParams) Evaluate(t float64) vector.Position {
	pos := vector.LerpXYZ(p.Start, p.End, t)
	pos.Y += p.PassDistance
	return pos
}

func (p DopplerParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"start", p.Evaluate(0)}, {"end", p.Evaluate(1)}}
}

// CircularScanParams sweeps back and forth across SweepDeg, Cycles times,
// like a radar scan.
type CircularScanParams struct {
	Center   vector.Position
	Radius   float64
	SweepDeg float64
	Cycles   float64
}

func (CircularScanParams) Kind() Kind { return CircularScan }

// Angle returns the instantaneous scan angle (degrees) at t.
func (p CircularScanParams) Angle(t float64) float64 {
	cycles := p.Cycles
	if cycles <= 0 {
		cycles = 1
	}
	phase := t*cycles + 0.25 // shifted so the scan starts on the centre line
	tri := 4*math.Abs(phase-math.Floor(phase)-0.5) - 1 // triangle wave in [-1,1]
	return tri * p.SweepDeg / 2
}

func (p CircularScanParams) Evaluate(t float64) vector.Position {
	theta := p.Angle(t) * math.Pi / 180
	r := clampMin(p.Radius, 0)
	return vector.Project(p.Center, r*math.Cos(theta), r*math.Sin(theta), PlaneXY)
}

func (p CircularScanParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"center", p.Center}, {"start", p.Evaluate(0)}}
}

// ZoomParams holds azimuth/elevation fixed and moves distance from
// StartDistance to EndDistance — a dolly toward or away from the listener.
type ZoomParams struct {
	Azimuth, Elevation           float64
	StartDistance, EndDistance   float64
}

func (ZoomParams) Kind() Kind { return Zoom }

func (p ZoomParams) Evaluate(t float64) vector.Position {
	dist := clampMin(p.StartDistance, 0) + (clampMin(p.EndDistance, 0)-clampMin(p.StartDistance, 0))*t
	return vector.AEDToXYZ(vector.AED{Azimuth: p.Azimuth, Elevation: p.Elevation, Distance: dist})
}

func (p ZoomParams) ControlPoints() []ControlPoint {
	return []ControlPoint{{"start", p.Evaluate(0)}, {"end", p.Evaluate(1)}}
}

// CustomParams plays back a user-authored sequence of Keyframes as a
// uniform piecewise-linear path, the escape hatch for anything the other
// 23 models don't cover.
type CustomParams struct {
	Keyframes []vector.Position
}

func (CustomParams) Kind() Kind { return Custom }

func (p CustomParams) Evaluate(t float64) vector.Position {
	n := len(p.Keyframes)
	if n == 0 {
		return vector.Position{}
	}
	if n == 1 {
		return p.Keyframes[0]
	}
	segments := n - 1
	scaled := t * float64(segments)
	seg := int(math.Floor(scaled))
	if seg >= segments {
		seg = segments - 1
	}
	if seg < 0 {
		seg = 0
	}
	localT := scaled - float64(seg)
	return vector.LerpXYZ(p.Keyframes[seg], p.Keyframes[seg+1], localT)
}

func (p CustomParams) ControlPoints() []ControlPoint {
	out := make([]ControlPoint, len(p.Keyframes))
	for i, k := range p.Keyframes {
		out[i] = ControlPoint{Name: "keyframe", Position: k}
	}
	return out
}
