package orchestrator

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"holophonix-engine/internal/clock"
	"holophonix-engine/internal/track"
)

// Config holds the orchestrator's tunable knobs (§6.3).
type Config struct {
	MaxConcurrentPlaybacks int
	ConflictStrategy       ConflictStrategy
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{MaxConcurrentPlaybacks: 50, ConflictStrategy: PriorityBased}
}

type scheduledAction struct {
	id        ScheduleID
	req       PlaybackRequest
	executeAt time.Time
}

// Orchestrator owns playback lifecycle and track ownership (§3, §4.4). It is
// driven externally, once per tick, by an Engine — it runs no goroutine of
// its own so property tests can drive it with a fake clock.
type Orchestrator struct {
	mu sync.RWMutex

	cfg    Config
	clk    clock.Clock
	tracks *track.Set

	playbacks  map[PlaybackID]*playback
	order      []PlaybackID // insertion order, for tie-breaking within a priority
	scheduled  map[ScheduleID]*scheduledAction
	trackOwner map[track.ID]PlaybackID

	events chan Event
}

// New builds an Orchestrator over the given track set.
func New(cfg Config, clk clock.Clock, tracks *track.Set) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		clk:        clk,
		tracks:     tracks,
		playbacks:  make(map[PlaybackID]*playback),
		scheduled:  make(map[ScheduleID]*scheduledAction),
		trackOwner: make(map[track.ID]PlaybackID),
		events:     make(chan Event, 256),
	}
}

// Events returns the orchestrator's event stream. Callers should drain it
// continuously; when the buffer is full the new event is dropped with a
// logged warning rather than blocking the tick loop.
func (o *Orchestrator) Events() <-chan Event { return o.events }

func (o *Orchestrator) emit(ev Event) {
	select {
	case o.events <- ev:
	default:
		slog.Warn("orchestrator event dropped, listener too slow", "kind", ev.Kind)
	}
}

// Play validates and admits req, returning the new playback's ID or a
// request error (§4.4).
func (o *Orchestrator) Play(req PlaybackRequest) (PlaybackID, error) {
	if err := validate(req); err != nil {
		return PlaybackID{}, err
	}

	now := o.clk.Now()
	o.mu.Lock()
	defer o.mu.Unlock()

	active := 0
	for _, existing := range o.playbacks {
		if !existing.isTerminal() {
			active++
		}
	}
	if active >= o.cfg.MaxConcurrentPlaybacks {
		return PlaybackID{}, ErrMaxConcurrentExceeded
	}

	conflicts := o.conflictingOwnersLocked(req.TrackIDs)
	ghosted := false
	if len(conflicts) > 0 {
		switch o.cfg.ConflictStrategy {
		case StopExisting:
			for _, loser := range conflicts {
				o.stopLocked(loser, now)
			}
		case RejectNew:
			return PlaybackID{}, ErrRejectedByPolicy
		case AllowConcurrent:
			ghosted = true
		case PriorityBased:
			for _, loser := range conflicts {
				lp := o.playbacks[loser]
				if lp == nil || req.Priority <= lp.req.Priority {
					return PlaybackID{}, ErrRejectedByPolicy
				}
			}
			for _, loser := range conflicts {
				o.stopLocked(loser, now)
			}
		}
	}

	p := newPlayback(req, now)
	o.playbacks[p.id] = p
	o.order = append(o.order, p.id)

	for _, id := range req.TrackIDs {
		if _, owned := o.trackOwner[id]; ghosted && owned {
			continue // ghosted: the existing owner keeps this track
		}
		o.trackOwner[id] = p.id
	}

	if p.state == Scheduled {
		// Tracks are reserved now so a later conflicting play() can't steal
		// them during the delay window; frozenInitialPositions is still
		// captured later, at the actual Starting transition (§3).
		return p.id, nil
	}

	p.start(now, o.tracks)
	o.emit(Event{Kind: EventStarted, PlaybackID: p.id})

	if o.cfg.ConflictStrategy == PriorityBased && len(conflicts) > 0 {
		for _, loser := range conflicts {
			o.emit(Event{Kind: EventConflictResolved, Loser: loser, Winner: p.id})
		}
	}

	return p.id, nil
}

func validate(req PlaybackRequest) error {
	if req.Animation == nil {
		return ErrNoSuchAnimation
	}
	if len(req.TrackIDs) == 0 {
		return ErrEmptyTracks
	}
	seen := make(map[track.ID]bool, len(req.TrackIDs))
	for _, id := range req.TrackIDs {
		if seen[id] {
			return ErrInvalidRequest
		}
		seen[id] = true
	}
	if req.Speed < 0 || req.Speed > 4 {
		return ErrInvalidRequest
	}
	if req.DelaySec < 0 {
		return ErrInvalidRequest
	}
	if req.Animation.PingPong && !req.Animation.Loop && (req.Loop == nil || !*req.Loop) {
		return ErrInvalidRequest
	}
	return nil
}

// conflictingOwnersLocked returns the distinct playback IDs currently
// owning any of trackIDs. Caller must hold o.mu.
func (o *Orchestrator) conflictingOwnersLocked(trackIDs []track.ID) []PlaybackID {
	seen := make(map[PlaybackID]bool)
	var out []PlaybackID
	for _, id := range trackIDs {
		if owner, ok := o.trackOwner[id]; ok {
			if !seen[owner] {
				seen[owner] = true
				out = append(out, owner)
			}
		}
	}
	return out
}

// Stop arms fade-out (if configured) and transitions id to Stopping, else
// Stopped (§4.4).
func (o *Orchestrator) Stop(id PlaybackID) error {
	now := o.clk.Now()
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopLocked(id, now)
}

func (o *Orchestrator) stopLocked(id PlaybackID, now time.Time) error {
	p, ok := o.playbacks[id]
	if !ok {
		return ErrNotFound
	}
	if p.isTerminal() {
		return nil
	}
	p.beginStop(now, o.tracks)
	if p.state == Stopped {
		o.releaseTracksLocked(p)
		o.emit(Event{Kind: EventStopped, PlaybackID: id})
	}
	return nil
}

func (o *Orchestrator) releaseTracksLocked(p *playback) {
	for _, id := range p.req.TrackIDs {
		if o.trackOwner[id] == p.id {
			delete(o.trackOwner, id)
		}
	}
}

// Pause freezes id's current time (§4.4).
func (o *Orchestrator) Pause(id PlaybackID) error {
	now := o.clk.Now()
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.playbacks[id]
	if !ok {
		return ErrNotFound
	}
	p.pause(now)
	o.emit(Event{Kind: EventPaused, PlaybackID: id})
	return nil
}

// Resume un-pauses id (§4.4).
func (o *Orchestrator) Resume(id PlaybackID) error {
	now := o.clk.Now()
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.playbacks[id]
	if !ok {
		return ErrNotFound
	}
	p.resume(now)
	o.emit(Event{Kind: EventResumed, PlaybackID: id})
	return nil
}

// Seek rebases id so its local time equals tSec*speed. Ignored while
// Stopping (§4.4).
func (o *Orchestrator) Seek(id PlaybackID, tSec float64) error {
	now := o.clk.Now()
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.playbacks[id]
	if !ok {
		return ErrNotFound
	}
	if p.state == Stopping {
		return nil
	}
	p.seek(now, tSec)
	return nil
}

// GotoStart seeks id back to local time zero.
func (o *Orchestrator) GotoStart(id PlaybackID) error {
	return o.Seek(id, 0)
}

// SetLoop overrides id's loop flag mid-flight, for inbound `/anim/loop`
// control.
func (o *Orchestrator) SetLoop(id PlaybackID, loop bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.playbacks[id]
	if !ok {
		return ErrNotFound
	}
	p.loop = loop
	return nil
}

// SetPingPong overrides id's pingPong flag mid-flight, for inbound
// `/anim/pingPong` control. The playback takes a private copy of its
// Animation so this never affects other playbacks sharing the same
// catalog entry.
func (o *Orchestrator) SetPingPong(id PlaybackID, pingPong bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.playbacks[id]
	if !ok {
		return ErrNotFound
	}
	animCopy := *p.req.Animation
	animCopy.PingPong = pingPong
	p.req.Animation = &animCopy
	return nil
}

// SetSpeed updates id's playback speed, preserving its current local time.
func (o *Orchestrator) SetSpeed(id PlaybackID, speed float64) error {
	if speed <= 0 || speed > 4 {
		return ErrInvalidRequest
	}
	now := o.clk.Now()
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.playbacks[id]
	if !ok {
		return ErrNotFound
	}
	p.rebaseForSpeed(now, speed)
	return nil
}

// StopAll fans Stop over every non-terminal playback and cancels every
// pending scheduled action (§4.4).
func (o *Orchestrator) StopAll() {
	o.mu.Lock()
	ids := make([]PlaybackID, 0, len(o.playbacks))
	for id, p := range o.playbacks {
		if !p.isTerminal() {
			ids = append(ids, id)
		}
	}
	for sid := range o.scheduled {
		delete(o.scheduled, sid)
	}
	o.mu.Unlock()

	for _, id := range ids {
		_ = o.Stop(id)
	}
}

// Schedule defers req until executeAt, returning a cancellable ScheduleID
// (§4.4).
func (o *Orchestrator) Schedule(req PlaybackRequest, executeAt time.Time) ScheduleID {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := newScheduleID()
	o.scheduled[id] = &scheduledAction{id: id, req: req, executeAt: executeAt}
	return id
}

// CancelSchedule cancels a pending scheduled action.
func (o *Orchestrator) CancelSchedule(id ScheduleID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.scheduled[id]; !ok {
		return ErrAlreadyExecuted
	}
	delete(o.scheduled, id)
	return nil
}

// Tick advances every Playing/Stopping playback by one step, promotes due
// scheduled actions, and returns the tick's updates ordered by priority
// then insertion order, each track appearing at most once (§4.4).
func (o *Orchestrator) Tick(now time.Time) []TrackPositionUpdate {
	o.promoteScheduled(now)
	o.promoteDelayed(now)

	o.mu.Lock()
	type row struct {
		id   PlaybackID
		pb   *playback
		prio Priority
	}
	var rows []row
	for _, id := range o.order {
		p, ok := o.playbacks[id]
		if !ok || p.isTerminal() {
			continue
		}
		rows = append(rows, row{id: id, pb: p, prio: p.req.Priority})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].prio > rows[j].prio })

	seenTrack := make(map[track.ID]bool)
	var updates []TrackPositionUpdate
	var completedIDs []PlaybackID
	var stoppedIDs []PlaybackID

	for _, r := range rows {
		p := r.pb
		if p.state == Scheduled {
			continue
		}
		wasStopping := p.state == Stopping
		raw, completed := p.tick(now, o.tracks)
		for _, id := range p.req.TrackIDs {
			if o.trackOwner[id] != p.id {
				continue // ghosted: suppress output for tracks owned elsewhere
			}
			if seenTrack[id] {
				continue
			}
			seenTrack[id] = true
			tr, ok := o.tracks.ByID(id)
			idx := 0
			prev := p.frozenInitial[id]
			if ok {
				idx = tr.HolophonixIndex
				prev = tr.Position
			}
			pos := raw[id]
			first := !p.emittedOnce[id]
			p.emittedOnce[id] = true
			updates = append(updates, TrackPositionUpdate{
				TrackID: id, HolophonixIndex: idx, Position: pos, PreviousPosition: prev,
				FirstTick:  first,
				PlaybackID: p.id, Priority: p.req.Priority,
				ModelKind: p.req.Animation.Model, Mode: p.req.Mode,
			})
			if ok {
				tr.Position = pos
			}
		}
		if p.warnedOnce {
			p.warnedOnce = false
			o.emit(Event{Kind: EventEvaluationWarning, PlaybackID: p.id, Reason: "NaN output replaced with last valid position"})
		}
		if completed && !wasStopping {
			completedIDs = append(completedIDs, p.id)
		}
		if p.state == Stopped {
			stoppedIDs = append(stoppedIDs, p.id)
		}
	}
	o.mu.Unlock()

	for _, id := range completedIDs {
		o.emit(Event{Kind: EventCompleted, PlaybackID: id})
	}
	for _, id := range stoppedIDs {
		o.mu.Lock()
		if p, ok := o.playbacks[id]; ok {
			o.releaseTracksLocked(p)
		}
		o.mu.Unlock()
		o.emit(Event{Kind: EventStopped, PlaybackID: id})
	}

	return updates
}

// promoteScheduled starts every scheduled action whose executeAt has
// passed. Rejections from admission are emitted as Error events, not
// returned, since there is no synchronous caller left to hear them.
func (o *Orchestrator) promoteScheduled(now time.Time) {
	o.mu.Lock()
	var due []*scheduledAction
	for id, sa := range o.scheduled {
		if !sa.executeAt.After(now) {
			due = append(due, sa)
			delete(o.scheduled, id)
		}
	}
	o.mu.Unlock()

	for _, sa := range due {
		req := sa.req
		req.DelaySec = 0
		if _, err := o.Play(req); err != nil {
			o.emit(Event{Kind: EventError, Err: err})
		}
	}
}

// promoteDelayed transitions Scheduled playbacks (from a delayed play()
// call) to Starting once their delay has elapsed.
func (o *Orchestrator) promoteDelayed(now time.Time) {
	o.mu.Lock()
	var due []*playback
	for _, id := range o.order {
		p := o.playbacks[id]
		if p != nil && p.state == Scheduled && !p.delayUntil.After(now) {
			due = append(due, p)
		}
	}
	for _, p := range due {
		p.start(now, o.tracks)
	}
	o.mu.Unlock()

	for _, p := range due {
		o.emit(Event{Kind: EventStarted, PlaybackID: p.id})
	}
}

// Playback returns a snapshot of a playback's public state, or false if
// unknown.
func (o *Orchestrator) Playback(id PlaybackID) (State, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.playbacks[id]
	if !ok {
		return 0, false
	}
	return p.state, true
}

// ActiveCount returns the number of non-terminal playbacks.
func (o *Orchestrator) ActiveCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	n := 0
	for _, p := range o.playbacks {
		if !p.isTerminal() {
			n++
		}
	}
	return n
}

// PlaybackSnapshot is an immutable, point-in-time view of one playback, for
// UI consumption. It carries no live handle back into the orchestrator.
type PlaybackSnapshot struct {
	ID            PlaybackID
	AnimationName string
	State         State
	Priority      Priority
	TrackCount    int
	Speed         float64
	Loop          bool
}

// Snapshot returns an immutable view of every known playback, in insertion
// order.
func (o *Orchestrator) Snapshot() []PlaybackSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]PlaybackSnapshot, 0, len(o.order))
	for _, id := range o.order {
		p, ok := o.playbacks[id]
		if !ok {
			continue
		}
		name := ""
		if p.req.Animation != nil {
			name = p.req.Animation.Name
		}
		out = append(out, PlaybackSnapshot{
			ID: p.id, AnimationName: name, State: p.state, Priority: p.req.Priority,
			TrackCount: len(p.req.TrackIDs), Speed: p.speed, Loop: p.loop,
		})
	}
	return out
}

// IsAnimating reports whether any non-terminal playback currently owns the
// track at the given Holophonix index. The device mirror uses this to drop
// position echoes for tracks under animation control.
func (o *Orchestrator) IsAnimating(holophonixIndex int) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	tr, ok := o.tracks.ByIndex(holophonixIndex)
	if !ok {
		return false
	}
	owner, ok := o.trackOwner[tr.ID]
	if !ok {
		return false
	}
	p, ok := o.playbacks[owner]
	return ok && !p.isTerminal()
}

// ByName looks up a non-terminal playback whose animation has the given
// name, returning the most recently started match. Used to translate
// inbound `/anim/*` control messages, which address animations by name,
// into PlaybackID-scoped operations.
func (o *Orchestrator) ByName(name string) (PlaybackID, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for i := len(o.order) - 1; i >= 0; i-- {
		p := o.playbacks[o.order[i]]
		if p == nil || p.isTerminal() {
			continue
		}
		if p.req.Animation != nil && p.req.Animation.Name == name {
			return p.id, true
		}
	}
	return PlaybackID{}, false
}
