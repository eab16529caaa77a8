// Package orchestrator owns playback lifecycle: admission, conflict
// resolution, scheduling, and the per-tick evaluation loop that turns
// live playbacks into track position updates (§4.4). It holds the only
// mutable record of which playback owns which track.
package orchestrator

import (
	"errors"

	"github.com/google/uuid"

	"holophonix-engine/internal/animation"
	"holophonix-engine/internal/models"
	"holophonix-engine/internal/track"
	"holophonix-engine/internal/vector"
)

// PlaybackID identifies one playback instance.
type PlaybackID uuid.UUID

func newPlaybackID() PlaybackID { return PlaybackID(uuid.New()) }

func (id PlaybackID) String() string { return uuid.UUID(id).String() }

// ScheduleID identifies one deferred play request.
type ScheduleID uuid.UUID

func newScheduleID() ScheduleID { return ScheduleID(uuid.New()) }

func (id ScheduleID) String() string { return uuid.UUID(id).String() }

// Priority orders conflicting playbacks, highest first.
type Priority int

const (
	Background Priority = iota
	Low
	Normal
	High
	Emergency
)

// Source names who originated a playback request.
type Source string

const (
	SourceUI       Source = "ui"
	SourceTimeline Source = "timeline"
	SourceCue      Source = "cue"
	SourceOSC      Source = "osc"
)

// ConflictStrategy governs what happens when a new request's tracks are
// already owned by another playback (§4.4).
type ConflictStrategy int

const (
	StopExisting ConflictStrategy = iota
	RejectNew
	AllowConcurrent
	PriorityBased
)

// PlaybackRequest is the input to Play (§3).
type PlaybackRequest struct {
	Animation *animation.Animation
	TrackIDs  []track.ID // ordered, nonempty, unique
	Mode      animation.Mode
	Priority  Priority
	Loop      *bool // overrides Animation.Loop when set
	Speed     float64
	Source    Source
	DelaySec  float64
}

// State is a playback's lifecycle state (§3).
type State int

const (
	Scheduled State = iota
	Starting
	Playing
	Paused
	Stopping
	Stopped
	Errored
)

func (s State) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Starting:
		return "starting"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	case Errored:
		return "error"
	default:
		return "unknown"
	}
}

// Request errors (§7), surfaced synchronously to the caller.
var (
	ErrInvalidRequest       = errors.New("orchestrator: invalid request")
	ErrEmptyTracks          = errors.New("orchestrator: empty track list")
	ErrNoSuchAnimation      = errors.New("orchestrator: no such animation")
	ErrMaxConcurrentExceeded = errors.New("orchestrator: max concurrent playbacks exceeded")
	ErrRejectedByPolicy     = errors.New("orchestrator: rejected by conflict policy")
	ErrAlreadyExecuted      = errors.New("orchestrator: scheduled action already executed")
	ErrNotFound             = errors.New("orchestrator: playback not found")
)

// TrackPositionUpdate is one track's evaluated position for a tick (§4.4).
type TrackPositionUpdate struct {
	TrackID          track.ID
	HolophonixIndex  int
	Position         vector.Position
	PreviousPosition vector.Position
	// FirstTick is true when this is the first update ever emitted for
	// (PlaybackID, TrackID) — no previous position exists yet, so the
	// optimiser must emit an absolute position rather than a delta.
	FirstTick  bool
	PlaybackID PlaybackID
	Priority   Priority
	// ModelKind and Mode are carried per update (not just once per tick)
	// since a single tick mixes updates from multiple concurrently playing
	// playbacks, each with its own model and multi-track mode (§4.4, §4.5).
	ModelKind models.Kind
	Mode      animation.Mode
}
