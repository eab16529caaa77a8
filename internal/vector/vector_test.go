package vector

import (
	"math"
	"testing"
)

func TestXYZToAEDOrigin(t *testing.T) {
	got := XYZToAED(Position{})
	if got != (AED{}) {
		t.Errorf("origin: got %+v, want zero AED", got)
	}
}

func TestAEDToXYZZeroDistance(t *testing.T) {
	got := AEDToXYZ(AED{Azimuth: 45, Elevation: 30, Distance: 0})
	if got != (Position{}) {
		t.Errorf("zero distance: got %+v, want origin", got)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []AED{
		{Azimuth: 0, Elevation: 0, Distance: 1},
		{Azimuth: 90, Elevation: 45, Distance: 10},
		{Azimuth: -170, Elevation: -80, Distance: 1e-4},
		{Azimuth: 179.9, Elevation: 89, Distance: 1e3},
	}
	for _, c := range cases {
		p := AEDToXYZ(c)
		back := XYZToAED(p)
		if math.Abs(back.Distance-c.Distance) > 1e-6*math.Max(1, c.Distance) {
			t.Errorf("distance round trip for %+v: got %v", c, back.Distance)
		}
		p2 := AEDToXYZ(back)
		if math.Abs(p2.X-p.X) > 1e-6 || math.Abs(p2.Y-p.Y) > 1e-6 || math.Abs(p2.Z-p.Z) > 1e-6 {
			t.Errorf("xyz round trip for %+v: got %+v, want %+v", c, p2, p)
		}
	}
}

func TestLerpAEDShortestArc(t *testing.T) {
	a := AED{Azimuth: 170, Distance: 1}
	b := AED{Azimuth: -170, Distance: 1}
	mid := LerpAED(a, b, 0.5)
	if math.Abs(mid.Azimuth-180) > 1e-9 && math.Abs(mid.Azimuth+180) > 1e-9 {
		t.Errorf("expected shortest-arc midpoint near +/-180, got %v", mid.Azimuth)
	}
}

func TestMeanEmpty(t *testing.T) {
	if Mean(nil) != (Position{}) {
		t.Errorf("mean of empty set should be origin")
	}
}

func TestMean(t *testing.T) {
	ps := []Position{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 4, Z: 6}}
	got := Mean(ps)
	want := Position{X: 1, Y: 2, Z: 3}
	if got != want {
		t.Errorf("mean: got %+v, want %+v", got, want)
	}
}

func TestRotateXYFullCircle(t *testing.T) {
	p := Position{X: 1, Y: 0, Z: 5}
	got := RotateXY(p, 360)
	if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
		t.Errorf("360 degree rotation should be identity: got %+v", got)
	}
}
