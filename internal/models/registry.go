package models

import "holophonix-engine/internal/vector"

// rotational names the models whose BarycentricIso/Centered offset rotation
// applies (§4.3): their effective per-tick rotation angle is used to spin
// each track's fixed offset around the barycentre.
var rotational = map[Kind]bool{
	Circular:     true,
	Spiral:       true,
	Orbit:        true,
	CircularScan: true,
}

// IsRotational reports whether kind rotates offsets under barycentric modes.
func IsRotational(kind Kind) bool {
	return rotational[kind]
}

// aedPreferred names the models whose motion reads most naturally in AED.
var aedPreferred = map[Kind]bool{
	Circular:     true,
	CircularScan: true,
	Zoom:         true,
	Spiral:       true,
	RoseCurve:    true,
	Epicycloid:   true,
	Orbit:        true,
}

// xyzPreferred names the models whose motion reads most naturally in XYZ.
var xyzPreferred = map[Kind]bool{
	Linear:      true,
	Bounce:      true,
	Zigzag:      true,
	Bezier:      true,
	CatmullRom:  true,
	Doppler:     true,
	PerlinNoise: true,
	Helix:       true,
	Random:      true,
}

// PreferredCoordinateSystem returns the model's preferred coordinate system
// and whether it expressed a preference at all (§4.2: "optional").
func PreferredCoordinateSystem(kind Kind) (CoordinateSystem, bool) {
	if aedPreferred[kind] {
		return AED, true
	}
	if xyzPreferred[kind] {
		return XYZ, true
	}
	return XYZ, false
}

// All lists every registered model kind, in contract order.
var All = []Kind{
	Linear, Circular, Elliptical, Spiral, Random, Pendulum, Bounce, Spring,
	Wave, Lissajous, Helix, Bezier, CatmullRom, Zigzag, PerlinNoise,
	RoseCurve, Epicycloid, Orbit, Formation, AttractRepel, Doppler,
	CircularScan, Zoom, Custom,
}

// IsValid reports whether kind is one of the registered models.
func IsValid(kind Kind) bool {
	_, ok := defaults[kind]
	return ok
}

// defaults maps each kind to a function building its default parameter
// record from a track's current position — the "explicit defaults
// generated from a track's initial position" called for in §9.
var defaults = map[Kind]func(trackPos vector.Position) Params{
	Linear: func(p vector.Position) Params {
		return LinearParams{Start: p, End: p.Add(vector.Position{X: 1})}
	},
	Circular: func(p vector.Position) Params {
		return CircularParams{Center: p, Radius: 1, StartAngle: 0, EndAngle: 360, Plane: PlaneXY}
	},
	Elliptical: func(p vector.Position) Params {
		return EllipticalParams{Center: p, RadiusA: 1.5, RadiusB: 0.75, StartAngle: 0, EndAngle: 360, Plane: PlaneXY}
	},
	Spiral: func(p vector.Position) Params {
		return SpiralParams{Center: p, StartRadius: 0.2, EndRadius: 1.5, Turns: 2, Plane: PlaneXY}
	},
	Random: func(p vector.Position) Params {
		return RandomParams{Center: p, Extent: vector.Position{X: 1, Y: 1, Z: 0.5}, Seed: 1, Speed: 1}
	},
	Pendulum: func(p vector.Position) Params {
		return PendulumParams{Pivot: p.Add(vector.Position{Z: 1}), Length: 1, AmplitudeDeg: 45, Plane: PlaneXY}
	},
	Bounce: func(p vector.Position) Params {
		return BounceParams{Start: p, End: p.Add(vector.Position{X: 2}), Height: 1, Bounces: 3}
	},
	Spring: func(p vector.Position) Params {
		return SpringParams{Rest: p, Amplitude: vector.Position{X: 1}, Frequency: 2, Damping: 2}
	},
	Wave: func(p vector.Position) Params {
		return WaveParams{Start: p, End: p.Add(vector.Position{X: 3}), Amplitude: 0.5, Frequency: 3, Axis: PlaneXY}
	},
	Lissajous: func(p vector.Position) Params {
		return LissajousParams{Center: p, AmplitudeA: 1, AmplitudeB: 1, FreqA: 3, FreqB: 2, Phase: 90, Plane: PlaneXY}
	},
	Helix: func(p vector.Position) Params {
		return HelixParams{Center: p, Radius: 1, Turns: 3, Height: 2, Axis: PlaneXY}
	},
	Bezier: func(p vector.Position) Params {
		return BezierParams{P0: p, P1: p.Add(vector.Position{X: 1, Z: 1}), P2: p.Add(vector.Position{X: 2, Z: -1}), P3: p.Add(vector.Position{X: 3})}
	},
	CatmullRom: func(p vector.Position) Params {
		pts := []vector.Position{p, p.Add(vector.Position{X: 1, Y: 1}), p.Add(vector.Position{X: 2, Y: -1}), p.Add(vector.Position{X: 3})}
		return CatmullRomParams{Points: pts, Closed: false, Tension: 0.5}
	},
	Zigzag: func(p vector.Position) Params {
		return ZigzagParams{Start: p, End: p.Add(vector.Position{X: 4}), Amplitude: 0.5, Segments: 6, Plane: PlaneXY}
	},
	PerlinNoise: func(p vector.Position) Params {
		return PerlinNoiseParams{Center: p, Extent: vector.Position{X: 1, Y: 1, Z: 0.5}, Speed: 1, Seed: 1}
	},
	RoseCurve: func(p vector.Position) Params {
		return RoseCurveParams{Center: p, Radius: 1.5, PetalRatio: 3, Plane: PlaneXY}
	},
	Epicycloid: func(p vector.Position) Params {
		return EpicycloidParams{Center: p, FixedRadius: 1, RollingRadius: 0.3, Plane: PlaneXY}
	},
	Orbit: func(p vector.Position) Params {
		return OrbitParams{Center: p, Radius: 1, Inclination: 20, Plane: PlaneXY}
	},
	Formation: func(p vector.Position) Params {
		return FormationParams{Center: p, Radius: 1, RotationDeg: 360}
	},
	AttractRepel: func(p vector.Position) Params {
		return AttractRepelParams{Start: p, Target: p.Add(vector.Position{X: 2}), Strength: 1, Repel: false}
	},
	Doppler: func(p vector.Position) Params {
		return DopplerParams{Start: p.Sub(vector.Position{X: 5}), End: p.Add(vector.Position{X: 5}), PassDistance: 1}
	},
	CircularScan: func(p vector.Position) Params {
		return CircularScanParams{Center: p, Radius: 1, SweepDeg: 120, Cycles: 2}
	},
	Zoom: func(p vector.Position) Params {
		return ZoomParams{Azimuth: 0, Elevation: 0, StartDistance: 0.2, EndDistance: 2}
	},
	Custom: func(p vector.Position) Params {
		return CustomParams{Keyframes: []vector.Position{p, p}}
	},
}

// RotationAngle returns the effective per-tick rotation angle (degrees) and
// plane for a rotational model's parameters at t, used by the barycentric
// Iso/Centered multi-track modes (§4.3) to spin each track's fixed offset
// around the barycentre. ok is false for non-rotational kinds.
func RotationAngle(p Params, t float64) (angleDeg float64, plane Plane, ok bool) {
	switch v := p.(type) {
	case CircularParams:
		return v.Angle(t) - v.StartAngle, v.Plane, true
	case SpiralParams:
		return v.Angle(t), v.Plane, true
	case OrbitParams:
		return v.Angle(t), v.Plane, true
	case CircularScanParams:
		return v.Angle(t), PlaneXY, true
	default:
		return 0, PlaneXY, false
	}
}

// DefaultParameters returns the default parameter record for kind, seeded
// from the track's current position. ok is false for an unregistered kind.
func DefaultParameters(kind Kind, trackPos vector.Position) (Params, bool) {
	f, ok := defaults[kind]
	if !ok {
		return nil, false
	}
	return f(trackPos), true
}

// Evaluate is a convenience wrapper clamping t to [0,1] before delegating to
// the parameter record's own Evaluate.
func Evaluate(p Params, t float64) vector.Position {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Evaluate(t)
}
