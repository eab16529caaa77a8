package models

import "holophonix-engine/internal/vector"

// Translate returns a copy of p with every positional field shifted by
// delta. It is how the barycentric Iso/Centered multi-track modes (§4.3)
// re-center a playback's nominal parameters on the formation's moving
// reference point B before evaluating B(t): Translate(p, B-origin(p)) gives
// the parameter record "centred at B" the spec calls for.
func Translate(p Params, delta vector.Position) Params {
	switch v := p.(type) {
	case LinearParams:
		v.Start, v.End = v.Start.Add(delta), v.End.Add(delta)
		return v
	case CircularParams:
		v.Center = v.Center.Add(delta)
		return v
	case EllipticalParams:
		v.Center = v.Center.Add(delta)
		return v
	case SpiralParams:
		v.Center = v.Center.Add(delta)
		return v
	case RandomParams:
		v.Center = v.Center.Add(delta)
		return v
	case PendulumParams:
		v.Pivot = v.Pivot.Add(delta)
		return v
	case BounceParams:
		v.Start, v.End = v.Start.Add(delta), v.End.Add(delta)
		return v
	case SpringParams:
		v.Rest = v.Rest.Add(delta)
		return v
	case WaveParams:
		v.Start, v.End = v.Start.Add(delta), v.End.Add(delta)
		return v
	case LissajousParams:
		v.Center = v.Center.Add(delta)
		return v
	case HelixParams:
		v.Center = v.Center.Add(delta)
		return v
	case BezierParams:
		v.P0, v.P1, v.P2, v.P3 = v.P0.Add(delta), v.P1.Add(delta), v.P2.Add(delta), v.P3.Add(delta)
		return v
	case CatmullRomParams:
		pts := make([]vector.Position, len(v.Points))
		for i, pt := range v.Points {
			pts[i] = pt.Add(delta)
		}
		v.Points = pts
		return v
	case ZigzagParams:
		v.Start, v.End = v.Start.Add(delta), v.End.Add(delta)
		return v
	case PerlinNoiseParams:
		v.Center = v.Center.Add(delta)
		return v
	case RoseCurveParams:
		v.Center = v.Center.Add(delta)
		return v
	case EpicycloidParams:
		v.Center = v.Center.Add(delta)
		return v
	case OrbitParams:
		v.Center = v.Center.Add(delta)
		return v
	case FormationParams:
		v.Center = v.Center.Add(delta)
		return v
	case AttractRepelParams:
		v.Start, v.Target = v.Start.Add(delta), v.Target.Add(delta)
		return v
	case DopplerParams:
		v.Start, v.End = v.Start.Add(delta), v.End.Add(delta)
		return v
	case CircularScanParams:
		v.Center = v.Center.Add(delta)
		return v
	case ZoomParams:
		shifted := vector.AEDToXYZ(vector.AED{Azimuth: v.Azimuth, Elevation: v.Elevation, Distance: v.StartDistance}).Add(delta)
		aed := vector.XYZToAED(shifted)
		v.Azimuth, v.Elevation = aed.Azimuth, aed.Elevation
		return v
	case CustomParams:
		pts := make([]vector.Position, len(v.Keyframes))
		for i, pt := range v.Keyframes {
			pts[i] = pt.Add(delta)
		}
		v.Keyframes = pts
		return v
	default:
		return p
	}
}

// Origin returns the model's first declared control point, the reference
// point Translate/Compose measure "centred at" from.
func Origin(p Params) vector.Position {
	cps := p.ControlPoints()
	if len(cps) == 0 {
		return vector.Position{}
	}
	return cps[0].Position
}
