package animation

import (
	"math"
	"testing"
	"time"

	"holophonix-engine/internal/models"
	"holophonix-engine/internal/track"
	"holophonix-engine/internal/vector"
)

func TestLocalTimeSpeedAndPause(t *testing.T) {
	start := time.Unix(0, 0)
	now := start.Add(4 * time.Second)
	L := LocalTime(now, start, time.Second, 2.0)
	if math.Abs(L-6) > 1e-9 {
		t.Errorf("expected L=6 (3s elapsed * speed 2), got %v", L)
	}
}

func TestCycleMapNonLoopCompletes(t *testing.T) {
	tt, done := CycleMap(5, 4, false, false)
	if tt != 1 || !done {
		t.Errorf("expected clamp-and-complete at L>=D, got t=%v done=%v", tt, done)
	}
	tt, done = CycleMap(2, 4, false, false)
	if done || math.Abs(tt-0.5) > 1e-9 {
		t.Errorf("expected t=0.5 not done, got t=%v done=%v", tt, done)
	}
}

func TestCycleMapLoopWraps(t *testing.T) {
	tt, done := CycleMap(9, 4, true, false)
	if done {
		t.Errorf("looping animations never complete")
	}
	if math.Abs(tt-0.25) > 1e-9 {
		t.Errorf("expected t=0.25 (9 mod 4 = 1, /4), got %v", tt)
	}
}

func TestCycleMapPingPongBounces(t *testing.T) {
	// period = 2D = 8. At L=2 (first quarter) -> t=0.5 rising.
	tt, _ := CycleMap(2, 4, true, true)
	if math.Abs(tt-0.5) > 1e-9 {
		t.Errorf("expected rising t=0.5, got %v", tt)
	}
	// At L=6 (third quarter of period) -> descending, t=0.5.
	tt, _ = CycleMap(6, 4, true, true)
	if math.Abs(tt-0.5) > 1e-9 {
		t.Errorf("expected descending t=0.5, got %v", tt)
	}
	// At L=4 (half period) -> t=1 turning point.
	tt, _ = CycleMap(4, 4, true, true)
	if math.Abs(tt-1) > 1e-9 {
		t.Errorf("expected t=1 at turning point, got %v", tt)
	}
}

func TestCycleMapPingPongIsTimePalindrome(t *testing.T) {
	const D = 4.0
	const period = 2 * D
	const samples = 40 // even so the turning points L=0, D, 2D land exactly on a sample
	for i := 0; i <= samples; i++ {
		L := period * float64(i) / float64(samples)
		mirrorL := period - L
		tt, _ := CycleMap(L, D, true, true)
		mirrorTt, _ := CycleMap(mirrorL, D, true, true)
		if math.Abs(tt-mirrorTt) > 1e-9 {
			t.Errorf("pingPong not a time-palindrome: CycleMap(%v)=%v but CycleMap(%v)=%v (mirror of L=%v across the 2D window)", L, tt, mirrorL, mirrorTt, L)
		}
	}
}

func TestFadeInFactorLinear(t *testing.T) {
	cfg := &FadeCfg{Duration: 2, Easing: EaseLinear}
	if f := FadeInFactor(cfg, 1); math.Abs(f-0.5) > 1e-9 {
		t.Errorf("expected 0.5 halfway through fade-in, got %v", f)
	}
	if f := FadeInFactor(nil, 100); f != 1 {
		t.Errorf("nil fade config should be full strength immediately")
	}
}

func TestFadeOutFactorCompletes(t *testing.T) {
	cfg := &FadeCfg{Duration: 1, Easing: EaseLinear}
	f, done := FadeOutFactor(cfg, 2)
	if !done || f != 1 {
		t.Errorf("expected fade-out complete past duration, got f=%v done=%v", f, done)
	}
	f, done = FadeOutFactor(cfg, 0)
	if done || f != 0 {
		t.Errorf("expected fade-out at origin at Lout=0, got f=%v done=%v", f, done)
	}
}

func TestComposeRelativePreservesOffset(t *testing.T) {
	anim := &Animation{
		Duration:   4,
		Model:      models.Linear,
		Parameters: models.LinearParams{Start: vector.Position{}, End: vector.Position{X: 2}},
	}
	mode := Mode{Kind: ModeRelative}
	in := TrackInput{TrackID: track.NewID(), Frozen: vector.Position{X: 10, Y: 5}}
	pos := Compose(anim, mode, in, 2, vector.Position{})
	want := vector.Position{X: 11, Y: 5} // frozen + (offset at t=0.5 == X:1)
	if math.Abs(pos.X-want.X) > 1e-9 || math.Abs(pos.Y-want.Y) > 1e-9 {
		t.Errorf("expected %+v, got %+v", want, pos)
	}
}

func TestComposeBarycentricIsoRotatesOffset(t *testing.T) {
	anim := &Animation{
		Duration:   4,
		Model:      models.Circular,
		Parameters: models.CircularParams{Center: vector.Position{}, Radius: 1, StartAngle: 0, EndAngle: 180, Plane: models.PlaneXY},
	}
	mode := Mode{Kind: ModeBarycentricIso}
	in := TrackInput{TrackID: track.NewID(), Frozen: vector.Position{X: 1}}
	bary := vector.Position{}
	pos := Compose(anim, mode, in, 2, bary) // t=0.5 -> rotation 90deg
	// B(t) itself traces the circle centred at bary, landing at (0,1); the
	// frozen offset (1,0) also rotates 90deg to (0,1), so they add to (0,2).
	if math.Abs(pos.X) > 1e-6 || math.Abs(pos.Y-2) > 1e-6 {
		t.Errorf("expected B(t)+rotated offset = (0,2), got %+v", pos)
	}
}

func TestComposePhaseOffsetDelaysLaterTracks(t *testing.T) {
	anim := &Animation{Duration: 4, Model: models.Linear, Parameters: models.LinearParams{Start: vector.Position{}, End: vector.Position{X: 4}}}
	mode := Mode{Kind: ModeRelative, PhaseOffset: 1}
	in0 := TrackInput{Index: 0, Frozen: vector.Position{}}
	in1 := TrackInput{Index: 1, Frozen: vector.Position{}}
	p0 := Compose(anim, mode, in0, 2, vector.Position{})
	p1 := Compose(anim, mode, in1, 2, vector.Position{})
	if p1.X >= p0.X {
		t.Errorf("track with phase offset should lag behind: p0=%+v p1=%+v", p0, p1)
	}
}
