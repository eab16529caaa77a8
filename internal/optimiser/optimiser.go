package optimiser

import (
	"holophonix-engine/internal/animation"
	"holophonix-engine/internal/models"
	"holophonix-engine/internal/orchestrator"
	"holophonix-engine/internal/oscwire"
	"holophonix-engine/internal/vector"
)

// Telemetry reports one tick's compression ratio.
type Telemetry struct {
	OriginalCount  int
	OptimisedCount int
	ReductionPct   float64
}

// Result is the output of one Optimise call.
type Result struct {
	Messages  []oscwire.Msg
	Telemetry Telemetry
}

// Optimiser turns a tick's track position updates into the minimum OSC
// traffic needed to reproduce them on the device. It holds no per-tick
// state of its own — "first tick of a playback" bookkeeping lives upstream
// in orchestrator.TrackPositionUpdate.FirstTick.
type Optimiser struct {
	cfg Config
}

// New builds an Optimiser with cfg.
func New(cfg Config) *Optimiser {
	return &Optimiser{cfg: cfg}
}

// Optimise compresses updates, which must already be grouped contiguously
// by PlaybackID in priority/insertion order (the shape orchestrator.Tick
// produces), into an ordered OSC message batch.
func (o *Optimiser) Optimise(updates []orchestrator.TrackPositionUpdate) Result {
	var messages []oscwire.Msg
	original := len(updates)

	for i := 0; i < len(updates); {
		j := i + 1
		for j < len(updates) && updates[j].PlaybackID == updates[i].PlaybackID {
			j++
		}
		group := updates[i:j]
		messages = append(messages, o.optimiseGroup(group)...)
		i = j
	}

	optimised := len(messages)
	pct := 0.0
	if original > 0 {
		pct = float64(original-optimised) / float64(original) * 100
	}
	return Result{
		Messages:  messages,
		Telemetry: Telemetry{OriginalCount: original, OptimisedCount: optimised, ReductionPct: pct},
	}
}

// optimiseGroup compresses the track updates belonging to a single playback.
func (o *Optimiser) optimiseGroup(group []orchestrator.TrackPositionUpdate) []oscwire.Msg {
	if len(group) == 0 {
		return nil
	}
	rep := group[0]
	coord := o.coordinateSystem(rep.ModelKind)
	uniform := isUniform(rep.Mode.Kind, rep.ModelKind)

	if uniform {
		return o.emitUniform(group, coord)
	}
	return o.emitPerTrack(group, coord)
}

// isUniform reports whether every track in a playback's group shares an
// identical per-tick delta, so they can be compressed into one patterned
// message instead of one per track.
//
// BarycentricShared always shares one motion. BarycentricIso/Centered share
// one motion too, unless the model is rotational: a rotational model spins
// each track's fixed offset independently, so their absolute deltas diverge
// tick to tick even though the underlying barycentre motion is shared.
func isUniform(kind animation.ModeKind, model models.Kind) bool {
	switch kind {
	case animation.ModeBarycentricShared:
		return true
	case animation.ModeBarycentricIso, animation.ModeBarycentricCentered:
		return !models.IsRotational(model)
	default:
		return false
	}
}

func (o *Optimiser) coordinateSystem(kind models.Kind) models.CoordinateSystem {
	if o.cfg.ForceCoordinateSystem != nil {
		return *o.cfg.ForceCoordinateSystem
	}
	if o.cfg.AutoSelectCoordinateSystem {
		if sys, ok := models.PreferredCoordinateSystem(kind); ok {
			return sys
		}
	}
	return models.XYZ
}

// emitUniform compresses a group whose tracks all move identically: one
// representative delta, addressed across every participating index.
func (o *Optimiser) emitUniform(group []orchestrator.TrackPositionUpdate, coord models.CoordinateSystem) []oscwire.Msg {
	rep := group[0]
	d := o.computeDelta(rep.Position, rep.PreviousPosition, coord, rep.FirstTick)
	if d.kind == deltaNone {
		return nil
	}
	if !o.cfg.EnablePatternMatching {
		indices := make([]int, len(group))
		for i, u := range group {
			indices[i] = u.HolophonixIndex
		}
		var out []oscwire.Msg
		for _, idx := range indices {
			out = append(out, buildMessages(d, coord, []int{idx})...)
		}
		return out
	}
	indices := make([]int, len(group))
	for i, u := range group {
		indices[i] = u.HolophonixIndex
	}
	return buildMessages(d, coord, indices)
}

// emitPerTrack compresses a group whose tracks move independently: each
// track gets its own compressed message(s), addressed by its own index.
func (o *Optimiser) emitPerTrack(group []orchestrator.TrackPositionUpdate, coord models.CoordinateSystem) []oscwire.Msg {
	var out []oscwire.Msg
	for _, u := range group {
		d := o.computeDelta(u.Position, u.PreviousPosition, coord, u.FirstTick)
		if d.kind == deltaNone {
			continue
		}
		out = append(out, buildMessages(d, coord, []int{u.HolophonixIndex})...)
	}
	return out
}

type deltaKind int

const (
	deltaNone deltaKind = iota
	deltaAbsolute
	deltaIncremental
)

// delta is the compression decision for one position update: either no
// message, an absolute triplet, or a set of per-axis incremental deltas.
type delta struct {
	kind   deltaKind
	triple [3]float64          // absolute values, axis order per coordinate system
	axes   map[oscwire.Axis]float64 // incremental deltas, nonzero only
}

// computeDelta decides how to represent cur relative to prev in the chosen
// coordinate system (§4.5).
func (o *Optimiser) computeDelta(cur, prev vector.Position, coord models.CoordinateSystem, firstTick bool) delta {
	if firstTick {
		return delta{kind: deltaAbsolute, triple: toTriple(cur, coord)}
	}

	curT := toTriple(cur, coord)
	prevT := toTriple(prev, coord)
	axisNames := axisOrder(coord)
	thresholds := o.thresholds(coord)

	var deltas [3]float64
	if coord == models.AED {
		deltas[0] = vector.AzimuthDelta(prevT[0], curT[0])
		deltas[1] = curT[1] - prevT[1]
		deltas[2] = curT[2] - prevT[2]
	} else {
		for i := range curT {
			deltas[i] = curT[i] - prevT[i]
		}
	}

	sum := 0.0
	anyNonZero := false
	anyOverThreshold := false
	for i, d := range deltas {
		ad := absf(d)
		sum += ad
		if ad > 1e-9 {
			anyNonZero = true
		}
		if ad > thresholds[i] {
			anyOverThreshold = true
		}
	}
	if !anyNonZero {
		return delta{kind: deltaNone}
	}
	if anyOverThreshold || !o.cfg.EnableIncrementalUpdates {
		return delta{kind: deltaAbsolute, triple: curT}
	}

	dominant := -1
	if o.cfg.SingleAxisThreshold > 0 && sum > 0 {
		for i, d := range deltas {
			if absf(d) >= o.cfg.SingleAxisThreshold*sum {
				dominant = i
				break
			}
		}
	}

	axes := make(map[oscwire.Axis]float64, 3)
	for i, d := range deltas {
		if absf(d) <= 1e-9 {
			continue
		}
		if dominant >= 0 && i != dominant {
			continue
		}
		axes[axisNames[i]] = d
	}
	if len(axes) == 0 {
		return delta{kind: deltaNone}
	}
	return delta{kind: deltaIncremental, axes: axes}
}

func (o *Optimiser) thresholds(coord models.CoordinateSystem) [3]float64 {
	if coord == models.AED {
		return [3]float64{o.cfg.IncrementalThresholdAEDDeg, o.cfg.IncrementalThresholdAEDDeg, o.cfg.IncrementalThresholdAEDDist}
	}
	return [3]float64{o.cfg.IncrementalThresholdXYZ, o.cfg.IncrementalThresholdXYZ, o.cfg.IncrementalThresholdXYZ}
}

func axisOrder(coord models.CoordinateSystem) [3]oscwire.Axis {
	if coord == models.AED {
		return [3]oscwire.Axis{oscwire.AxisAzim, oscwire.AxisElev, oscwire.AxisDist}
	}
	return [3]oscwire.Axis{oscwire.AxisX, oscwire.AxisY, oscwire.AxisZ}
}

func toTriple(p vector.Position, coord models.CoordinateSystem) [3]float64 {
	if coord == models.AED {
		a := vector.XYZToAED(p)
		return [3]float64{a.Azimuth, a.Elevation, a.Distance}
	}
	return [3]float64{p.X, p.Y, p.Z}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// buildMessages renders a compression decision into the OSC message(s) it
// requires, addressed over indices.
func buildMessages(d delta, coord models.CoordinateSystem, indices []int) []oscwire.Msg {
	switch d.kind {
	case deltaAbsolute:
		suffix := oscwire.AbsoluteSuffixXYZ
		v0, v1, v2 := d.triple[0], d.triple[1], d.triple[2]
		if coord == models.AED {
			suffix = oscwire.AbsoluteSuffixAED
			v0 = oscwire.WrapAzimuthDeg(v0)
		}
		return []oscwire.Msg{{
			Address:         oscwire.Pattern(indices, suffix),
			Args:            []float32{oscwire.TruncateFloat32(v0), oscwire.TruncateFloat32(v1), oscwire.TruncateFloat32(v2)},
			AffectedIndices: indices,
		}}
	case deltaIncremental:
		order := axisOrder(coord)
		var out []oscwire.Msg
		for _, ax := range order {
			v, ok := d.axes[ax]
			if !ok {
				continue
			}
			if ax == oscwire.AxisAzim {
				v = oscwire.WrapAzimuthDeg(v)
			}
			out = append(out, oscwire.Msg{
				Address:         oscwire.Pattern(indices, oscwire.IncrementalSuffix(ax)),
				Args:            []float32{oscwire.TruncateFloat32(v)},
				AffectedIndices: indices,
			})
		}
		return out
	default:
		return nil
	}
}
