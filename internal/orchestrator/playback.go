package orchestrator

import (
	"time"

	"holophonix-engine/internal/animation"
	"holophonix-engine/internal/track"
	"holophonix-engine/internal/vector"
)

// playback is the runtime record for one admitted PlaybackRequest (§3).
// frozenInitialPositions is captured once, at Starting, and never mutated
// thereafter.
type playback struct {
	id      PlaybackID
	req     PlaybackRequest
	state   State
	created time.Time

	startedAtMono time.Time
	pausedAccum   time.Duration
	pauseBeganAt  time.Time
	speed         float64
	loop          bool

	frozenInitial map[track.ID]vector.Position
	lastValid     map[track.ID]vector.Position
	fadeInDone    map[track.ID]bool
	emittedOnce   map[track.ID]bool

	// stoppingSince anchors the fade-out's independent clock (§4.3: "for df
	// seconds", not affected by speed).
	stoppingSince  time.Time
	fadeOutInitial map[track.ID]vector.Position
	fadeOutOrigin  map[track.ID]vector.Position

	// warnedOnce marks that the latest tick replaced a NaN model output.
	// Orchestrator.Tick emits one EvaluationWarning for it and clears the
	// flag, so the warning repeats on every tick that produces a NaN.
	warnedOnce bool

	delayUntil time.Time // non-zero while Scheduled
}

func newPlayback(req PlaybackRequest, now time.Time) *playback {
	loop := req.Animation.Loop
	if req.Loop != nil {
		loop = *req.Loop
	}
	speed := req.Speed
	if speed <= 0 {
		speed = 1
	}
	p := &playback{
		id:            newPlaybackID(),
		req:           req,
		state:         Playing,
		created:       now,
		speed:         speed,
		loop:          loop,
		startedAtMono: now,
		frozenInitial: make(map[track.ID]vector.Position, len(req.TrackIDs)),
		lastValid:     make(map[track.ID]vector.Position, len(req.TrackIDs)),
		fadeInDone:    make(map[track.ID]bool, len(req.TrackIDs)),
		emittedOnce:   make(map[track.ID]bool, len(req.TrackIDs)),
	}
	if req.DelaySec > 0 {
		p.state = Scheduled
		p.delayUntil = now.Add(time.Duration(req.DelaySec * float64(time.Second)))
	}
	return p
}

// start transitions Scheduled/pending to Starting, freezing initial
// positions, then immediately to Playing.
func (p *playback) start(now time.Time, tracks *track.Set) {
	p.state = Starting
	for _, id := range p.req.TrackIDs {
		tr, ok := tracks.ByID(id)
		pos := vector.Position{}
		if ok {
			pos = tr.InitialPosition
		}
		p.frozenInitial[id] = pos
		p.lastValid[id] = pos
	}
	p.startedAtMono = now
	p.pausedAccum = 0
	p.state = Playing
}

// localTime returns the playback's current local elapsed time in seconds.
func (p *playback) localTime(now time.Time) float64 {
	return animation.LocalTime(now, p.startedAtMono, p.pausedAccum, p.speed)
}

// rebaseForSpeed updates speed while preserving the current local time L,
// per §4.3 ("startedAtMono is rebased so current L is preserved").
func (p *playback) rebaseForSpeed(now time.Time, newSpeed float64) {
	if newSpeed <= 0 {
		newSpeed = p.speed
	}
	L := p.localTime(now)
	p.speed = newSpeed
	elapsed := time.Duration(L / newSpeed * float64(time.Second))
	p.startedAtMono = now.Add(-elapsed - p.pausedAccum)
}

// seek rebases startedAtMono so that L = tSec*speed (§4.4).
func (p *playback) seek(now time.Time, tSec float64) {
	elapsed := time.Duration(tSec * float64(time.Second))
	p.startedAtMono = now.Add(-elapsed)
	p.pausedAccum = 0
}

func (p *playback) pause(now time.Time) {
	if p.state != Playing {
		return
	}
	p.state = Paused
	p.pauseBeganAt = now
}

func (p *playback) resume(now time.Time) {
	if p.state != Paused {
		return
	}
	p.pausedAccum += now.Sub(p.pauseBeganAt)
	p.state = Playing
}

// beginStop arms the fade-out (if configured) and moves to Stopping, or
// jumps straight to Stopped if there is none (§4.4).
func (p *playback) beginStop(now time.Time, tracks *track.Set) {
	if p.req.Animation.FadeOut == nil {
		p.state = Stopped
		return
	}
	p.state = Stopping
	p.stoppingSince = now
	p.fadeOutInitial = make(map[track.ID]vector.Position, len(p.req.TrackIDs))
	p.fadeOutOrigin = make(map[track.ID]vector.Position, len(p.req.TrackIDs))
	for _, id := range p.req.TrackIDs {
		origin := p.lastValid[id]
		p.fadeOutOrigin[id] = origin
		initial := origin
		if tr, ok := tracks.ByID(id); ok {
			initial = tr.InitialPosition
		}
		p.fadeOutInitial[id] = initial
	}
}

// tick evaluates every track this playback owns at `now`, returning raw
// updates and whether the playback just completed/terminated.
func (p *playback) tick(now time.Time, tracks *track.Set) (updates map[track.ID]vector.Position, done bool) {
	updates = make(map[track.ID]vector.Position, len(p.req.TrackIDs))

	if p.state == Stopping {
		return p.tickFadeOut(now), false
	}
	if p.state == Scheduled {
		return nil, false
	}
	if p.state != Playing {
		for _, id := range p.req.TrackIDs {
			updates[id] = p.lastValid[id]
		}
		return updates, false
	}

	L := p.localTime(now)
	anim := p.req.Animation
	// The animation clock holds at zero while a fade-in runs; the fade
	// itself is timed on L (§4.3).
	animL := L
	if anim.FadeIn != nil && anim.FadeIn.Duration > 0 {
		animL = L - anim.FadeIn.Duration
		if animL < 0 {
			animL = 0
		}
	}
	completed := !p.loop && animL >= anim.Duration

	effAnim := *anim
	effAnim.Loop = p.loop

	bary := animation.Barycentre(p.trackInputs())
	for i, id := range p.req.TrackIDs {
		in := animation.TrackInput{TrackID: id, Index: i, Frozen: p.frozenInitial[id]}
		trackL := animL - float64(i)*p.req.Mode.PhaseOffset
		pos := p.lastValid[id]
		if trackL >= 0 {
			pos = animation.Compose(&effAnim, p.req.Mode, in, animL, bary)
		}
		if !pos.IsFinite() {
			p.warnedOnce = true
			pos = p.lastValid[id]
		} else {
			pos = p.applyFadeIn(id, L, pos)
			p.lastValid[id] = pos
		}
		updates[id] = pos
	}

	if completed {
		p.beginStop(now, tracks)
	}
	return updates, completed
}

func (p *playback) applyFadeIn(id track.ID, L float64, modelPos vector.Position) vector.Position {
	cfg := p.req.Animation.FadeIn
	if cfg == nil || p.fadeInDone[id] {
		return modelPos
	}
	if L >= cfg.Duration {
		p.fadeInDone[id] = true
		return modelPos
	}
	origin := p.frozenInitial[id]
	factor := animation.FadeInFactor(cfg, L)
	return animation.Blend(origin, modelPos, factor)
}

func (p *playback) tickFadeOut(now time.Time) map[track.ID]vector.Position {
	updates := make(map[track.ID]vector.Position, len(p.req.TrackIDs))
	cfg := p.req.Animation.FadeOut
	lOut := now.Sub(p.stoppingSince).Seconds()
	factor, done := animation.FadeOutFactor(cfg, lOut)
	for _, id := range p.req.TrackIDs {
		pos := animation.Blend(p.fadeOutOrigin[id], p.fadeOutInitial[id], factor)
		updates[id] = pos
		p.lastValid[id] = pos
	}
	if done {
		p.state = Stopped
	}
	return updates
}

func (p *playback) trackInputs() []animation.TrackInput {
	out := make([]animation.TrackInput, len(p.req.TrackIDs))
	for i, id := range p.req.TrackIDs {
		out[i] = animation.TrackInput{TrackID: id, Index: i, Frozen: p.frozenInitial[id]}
	}
	return out
}

func (p *playback) isTerminal() bool {
	return p.state == Stopped || p.state == Errored
}
