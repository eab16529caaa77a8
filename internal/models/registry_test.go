package models

import (
	"math"
	"testing"

	"holophonix-engine/internal/vector"
)

func TestAllModelsHaveDefaults(t *testing.T) {
	for _, k := range All {
		if _, ok := defaults[k]; !ok {
			t.Errorf("model %q has no default-parameters entry", k)
		}
	}
	if len(All) != 24 {
		t.Errorf("expected 24 contractual models, got %d", len(All))
	}
}

// startControlPointNames, in priority order, are the control point names a
// model uses for the literal author-supplied position it starts at. Models
// with none of these (Pendulum, whose points are "pivot"/"rest") are exempt
// from this check.
var startControlPointNames = []string{"start", "p0", "point", "keyframe"}

func TestEvaluateAtZeroMatchesStartControlPoint(t *testing.T) {
	trackPos := vector.Position{X: 1, Y: 2, Z: 3}
	for _, k := range All {
		params, ok := DefaultParameters(k, trackPos)
		if !ok {
			t.Fatalf("no default parameters for %q", k)
		}
		got := Evaluate(params, 0)
		cps := params.ControlPoints()
		if len(cps) == 0 {
			t.Errorf("%q: no control points", k)
			continue
		}

		var want *vector.Position
		for _, name := range startControlPointNames {
			for _, cp := range cps {
				if cp.Name == name {
					p := cp.Position
					want = &p
					break
				}
			}
			if want != nil {
				break
			}
		}
		if want == nil {
			continue
		}
		if math.Abs(want.X-got.X) > 1e-9 || math.Abs(want.Y-got.Y) > 1e-9 || math.Abs(want.Z-got.Z) > 1e-9 {
			t.Errorf("%q: evaluate(0)=%+v does not match declared start point %+v", k, got, *want)
		}
	}
}

func TestEvaluateClampsT(t *testing.T) {
	p := LinearParams{Start: vector.Position{}, End: vector.Position{X: 10}}
	got := Evaluate(p, 5)
	if got.X != 10 {
		t.Errorf("t>1 should clamp to 1: got %+v", got)
	}
	got = Evaluate(p, -5)
	if got.X != 0 {
		t.Errorf("t<0 should clamp to 0: got %+v", got)
	}
}

func TestRandomIsDeterministic(t *testing.T) {
	p := RandomParams{Center: vector.Position{}, Extent: vector.Position{X: 1, Y: 1, Z: 1}, Seed: 42, Speed: 1}
	a := p.Evaluate(0.37)
	b := p.Evaluate(0.37)
	if a != b {
		t.Errorf("random model must be a pure function of (params,t): got %+v vs %+v", a, b)
	}
}

func TestCircularRotationAngle(t *testing.T) {
	p := CircularParams{Center: vector.Position{}, Radius: 1, StartAngle: 0, EndAngle: 90, Plane: PlaneXY}
	angle, plane, ok := RotationAngle(p, 0.5)
	if !ok {
		t.Fatalf("circular should report rotational")
	}
	if math.Abs(angle-45) > 1e-9 {
		t.Errorf("expected 45 degree rotation at t=0.5, got %v", angle)
	}
	if plane != PlaneXY {
		t.Errorf("expected XY plane")
	}
}

func TestLinearNotRotational(t *testing.T) {
	if IsRotational(Linear) {
		t.Errorf("linear should not be rotational")
	}
	if !IsRotational(Circular) || !IsRotational(Spiral) || !IsRotational(Orbit) || !IsRotational(CircularScan) {
		t.Errorf("expected circular/spiral/orbit/circularScan to be rotational")
	}
}

func TestCatmullRomEvaluateAtZeroMatchesFirstPoint(t *testing.T) {
	pts := []vector.Position{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	for _, tension := range []float64{0, 0.5, 1} {
		p := CatmullRomParams{Points: pts, Tension: tension}
		got := p.Evaluate(0)
		if math.Abs(got.X-pts[0].X) > 1e-9 || math.Abs(got.Y-pts[0].Y) > 1e-9 || math.Abs(got.Z-pts[0].Z) > 1e-9 {
			t.Errorf("tension %v: evaluate(0)=%+v, want first point %+v", tension, got, pts[0])
		}
	}
}

func TestCatmullRomClosedWraps(t *testing.T) {
	pts := []vector.Position{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	p := CatmullRomParams{Points: pts, Closed: true, Tension: 0.5}
	start := p.Evaluate(0)
	if math.Abs(start.X-0) > 1e-9 {
		t.Errorf("closed spline evaluate(0) should equal the first point, got %+v", start)
	}
	end := p.Evaluate(1)
	if math.Abs(end.X-0) > 1e-9 {
		t.Errorf("closed spline evaluate(1) should wrap across the seam back to the first point, got %+v", end)
	}
}

func TestBezierEndpoints(t *testing.T) {
	p := BezierParams{
		P0: vector.Position{X: 0},
		P1: vector.Position{X: 1},
		P2: vector.Position{X: 2},
		P3: vector.Position{X: 3},
	}
	if got := p.Evaluate(0); got != p.P0 {
		t.Errorf("bezier at t=0 should equal P0: got %+v", got)
	}
	if got := p.Evaluate(1); got != p.P3 {
		t.Errorf("bezier at t=1 should equal P3: got %+v", got)
	}
}
