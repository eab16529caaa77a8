package optimiser

import (
	"testing"

	"github.com/google/uuid"

	"holophonix-engine/internal/animation"
	"holophonix-engine/internal/models"
	"holophonix-engine/internal/orchestrator"
	"holophonix-engine/internal/vector"
)

func pid() orchestrator.PlaybackID { return orchestrator.PlaybackID(uuid.New()) }

func TestOptimiseFirstTickEmitsAbsolute(t *testing.T) {
	o := New(DefaultConfig())
	p := pid()
	updates := []orchestrator.TrackPositionUpdate{{
		HolophonixIndex: 5, Position: vector.Position{}, PreviousPosition: vector.Position{},
		FirstTick: true, PlaybackID: p, ModelKind: models.Linear,
		Mode: animation.Mode{Kind: animation.ModeRelative},
	}}
	res := o.Optimise(updates)
	if len(res.Messages) != 1 {
		t.Fatalf("want 1 message, got %d", len(res.Messages))
	}
	if res.Messages[0].Address != "/track/5/xyz" {
		t.Errorf("address = %q", res.Messages[0].Address)
	}
}

func TestOptimiseIncrementalBelowThreshold(t *testing.T) {
	o := New(DefaultConfig())
	p := pid()
	updates := []orchestrator.TrackPositionUpdate{{
		HolophonixIndex: 5,
		Position:        vector.Position{X: 5.033},
		PreviousPosition: vector.Position{X: 5},
		PlaybackID:      p, ModelKind: models.Linear,
		Mode: animation.Mode{Kind: animation.ModeRelative},
	}}
	res := o.Optimise(updates)
	if len(res.Messages) != 1 {
		t.Fatalf("want 1 message, got %d", len(res.Messages))
	}
	if res.Messages[0].Address != "/track/5/x++" {
		t.Errorf("address = %q", res.Messages[0].Address)
	}
}

func TestOptimiseAbsoluteOverThreshold(t *testing.T) {
	o := New(DefaultConfig())
	p := pid()
	updates := []orchestrator.TrackPositionUpdate{{
		HolophonixIndex: 5,
		Position:        vector.Position{X: 5},
		PreviousPosition: vector.Position{X: 0},
		PlaybackID:      p, ModelKind: models.Linear,
		Mode: animation.Mode{Kind: animation.ModeRelative},
	}}
	res := o.Optimise(updates)
	if len(res.Messages) != 1 || res.Messages[0].Address != "/track/5/xyz" {
		t.Fatalf("want one absolute message, got %+v", res.Messages)
	}
}

func TestOptimiseSharedSingleAxisDominance(t *testing.T) {
	o := New(DefaultConfig())
	p := pid()
	var updates []orchestrator.TrackPositionUpdate
	for i := 1; i <= 10; i++ {
		updates = append(updates, orchestrator.TrackPositionUpdate{
			HolophonixIndex:  i,
			Position:         vector.Position{X: 1, Y: 0, Z: 0},
			PreviousPosition: vector.Position{X: 0.99, Y: 0, Z: 0},
			PlaybackID:       p, ModelKind: models.Circular,
			Mode: animation.Mode{Kind: animation.ModeBarycentricShared},
		})
	}
	res := o.Optimise(updates)
	if len(res.Messages) != 1 {
		t.Fatalf("want 1 patterned message, got %d: %+v", len(res.Messages), res.Messages)
	}
	if res.Messages[0].Address != "/track/[1-10]/dist++" {
		t.Errorf("address = %q", res.Messages[0].Address)
	}
}

func TestOptimiseZeroDeltaIsIdempotent(t *testing.T) {
	o := New(DefaultConfig())
	p := pid()
	updates := []orchestrator.TrackPositionUpdate{{
		HolophonixIndex: 1, Position: vector.Position{X: 1}, PreviousPosition: vector.Position{X: 1},
		PlaybackID: p, ModelKind: models.Linear, Mode: animation.Mode{Kind: animation.ModeRelative},
	}}
	res := o.Optimise(updates)
	if len(res.Messages) != 0 {
		t.Errorf("want no messages for zero delta, got %+v", res.Messages)
	}
}

func TestOptimiseRelativePhaseOffsetSkipsUnstarted(t *testing.T) {
	o := New(DefaultConfig())
	p := pid()
	updates := []orchestrator.TrackPositionUpdate{
		{HolophonixIndex: 1, Position: vector.Position{X: 0.2}, PreviousPosition: vector.Position{X: 0.1},
			PlaybackID: p, ModelKind: models.Linear, Mode: animation.Mode{Kind: animation.ModeRelative, PhaseOffset: 0.2}},
		{HolophonixIndex: 2, Position: vector.Position{}, PreviousPosition: vector.Position{},
			PlaybackID: p, ModelKind: models.Linear, Mode: animation.Mode{Kind: animation.ModeRelative, PhaseOffset: 0.2}},
	}
	res := o.Optimise(updates)
	if len(res.Messages) != 1 {
		t.Fatalf("want 1 message (track 1 only), got %+v", res.Messages)
	}
	if res.Messages[0].Address != "/track/1/x++" {
		t.Errorf("address = %q", res.Messages[0].Address)
	}
}

func TestOptimiseRotationalIsoEmitsPerTrack(t *testing.T) {
	o := New(DefaultConfig())
	p := pid()
	updates := []orchestrator.TrackPositionUpdate{
		{HolophonixIndex: 1, Position: vector.Position{X: 1, Y: 0}, PreviousPosition: vector.Position{X: 0.9, Y: 0.1},
			PlaybackID: p, ModelKind: models.Circular, Mode: animation.Mode{Kind: animation.ModeBarycentricIso}},
		{HolophonixIndex: 2, Position: vector.Position{X: -1, Y: 0}, PreviousPosition: vector.Position{X: -0.9, Y: -0.1},
			PlaybackID: p, ModelKind: models.Circular, Mode: animation.Mode{Kind: animation.ModeBarycentricIso}},
	}
	res := o.Optimise(updates)
	if len(res.Messages) == 0 {
		t.Fatal("want per-track messages, got none")
	}
	for _, m := range res.Messages {
		if m.Address == "/track/[1-2]/aed" {
			t.Errorf("rotational Iso must not pattern-group tracks with diverging deltas: %q", m.Address)
		}
	}
}

func TestOptimisePatternMatchingDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnablePatternMatching = false
	o := New(cfg)
	p := pid()
	var updates []orchestrator.TrackPositionUpdate
	for i := 1; i <= 3; i++ {
		updates = append(updates, orchestrator.TrackPositionUpdate{
			HolophonixIndex: i, Position: vector.Position{X: 5}, PreviousPosition: vector.Position{X: 0},
			PlaybackID: p, ModelKind: models.Linear, Mode: animation.Mode{Kind: animation.ModeBarycentricShared},
		})
	}
	res := o.Optimise(updates)
	if len(res.Messages) != 3 {
		t.Fatalf("want one message per track with pattern matching disabled, got %d", len(res.Messages))
	}
	for _, m := range res.Messages {
		if m.Address == "/track/[1-3]/xyz" {
			t.Errorf("pattern address emitted despite EnablePatternMatching=false: %q", m.Address)
		}
	}
}

func TestOptimiseTelemetry(t *testing.T) {
	o := New(DefaultConfig())
	p := pid()
	updates := []orchestrator.TrackPositionUpdate{
		{HolophonixIndex: 1, Position: vector.Position{X: 1}, PreviousPosition: vector.Position{X: 1},
			PlaybackID: p, ModelKind: models.Linear, Mode: animation.Mode{Kind: animation.ModeRelative}},
		{HolophonixIndex: 2, Position: vector.Position{X: 5}, PreviousPosition: vector.Position{X: 0},
			PlaybackID: p, ModelKind: models.Linear, Mode: animation.Mode{Kind: animation.ModeRelative}},
	}
	res := o.Optimise(updates)
	if res.Telemetry.OriginalCount != 2 {
		t.Errorf("originalCount = %d, want 2", res.Telemetry.OriginalCount)
	}
	if res.Telemetry.OptimisedCount != 1 {
		t.Errorf("optimisedCount = %d, want 1", res.Telemetry.OptimisedCount)
	}
}
