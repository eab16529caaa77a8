package animation

import (
	"holophonix-engine/internal/models"
	"holophonix-engine/internal/track"
	"holophonix-engine/internal/vector"
)

// TrackInput is one track's per-tick inputs to multi-track composition.
type TrackInput struct {
	TrackID ID
	// Index is this track's 0-based order within the playback, used for the
	// "sequential" phase offset (§3), which Compose applies in every mode.
	Index int
	// Frozen is the track's position at the moment the playback entered the
	// Starting state (§3: "captured once, at start, and held fixed").
	Frozen vector.Position
}

// ID re-exports track.ID so callers that only need the animation package
// don't have to import track for this one type.
type ID = track.ID

// Compose evaluates one track's raw, pre-fade position for an animation
// tick, given the playback's multi-track mode and the barycentre of all
// tracks' frozen positions (§4.3). barycentre is ignored by modes that don't
// use it.
func Compose(anim *Animation, mode Mode, in TrackInput, L float64, barycentre vector.Position) vector.Position {
	trackL := L - float64(in.Index)*mode.PhaseOffset
	if trackL < 0 {
		trackL = 0
	}
	t, _ := CycleMap(trackL, anim.Duration, anim.Loop, anim.PingPong)

	switch mode.Kind {
	case ModeBarycentricCustom:
		params, ok := mode.CustomParams[in.TrackID]
		if !ok {
			params = anim.Parameters
		}
		return models.Evaluate(params, t)

	case ModeBarycentricShared:
		return models.Evaluate(anim.Parameters, t)

	case ModeBarycentricIso:
		offset := in.Frozen.Sub(barycentre)
		bt := evaluateCenteredAt(anim.Parameters, barycentre, t)
		angle, plane, ok := models.RotationAngle(anim.Parameters, t)
		if !ok {
			return bt.Add(offset)
		}
		return bt.Add(vector.RotateInPlane(offset, angle, plane))

	case ModeBarycentricCentered:
		offset := in.Frozen.Sub(mode.Center)
		bt := evaluateCenteredAt(anim.Parameters, mode.Center, t)
		angle, plane, ok := models.RotationAngle(anim.Parameters, t)
		if !ok {
			return bt.Add(offset)
		}
		return bt.Add(vector.RotateInPlane(offset, angle, plane))

	default: // ModeRelative
		start := models.Origin(anim.Parameters)
		offset := models.Evaluate(anim.Parameters, t).Sub(start)
		return in.Frozen.Add(offset)
	}
}

// evaluateCenteredAt evaluates params re-centred on ref, giving B(t): the
// moving position the barycentric Iso/Centered modes (§4.3) add each
// track's rotated fixed offset to.
func evaluateCenteredAt(p models.Params, ref vector.Position, t float64) vector.Position {
	delta := ref.Sub(models.Origin(p))
	return models.Evaluate(models.Translate(p, delta), t)
}

// Barycentre returns the mean of every track's frozen position, for
// BarycentricIso (§3).
func Barycentre(inputs []TrackInput) vector.Position {
	ps := make([]vector.Position, len(inputs))
	for i, in := range inputs {
		ps[i] = in.Frozen
	}
	return vector.Mean(ps)
}
