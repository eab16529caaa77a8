package orchestrator

import "holophonix-engine/internal/track"

// EventKind names one of the orchestrator's event types (§4.4, §7).
type EventKind string

const (
	EventStarted           EventKind = "started"
	EventStopped            EventKind = "stopped"
	EventPaused            EventKind = "paused"
	EventResumed           EventKind = "resumed"
	EventCompleted         EventKind = "completed"
	EventEvaluationWarning EventKind = "evaluationWarning"
	EventConflictResolved  EventKind = "conflictResolved"
	EventError             EventKind = "error"
)

// Event is emitted on the orchestrator's single outbound event stream
// (§9: "a single event channel out").
type Event struct {
	Kind       EventKind
	PlaybackID PlaybackID

	// EvaluationWarning fields.
	TrackID track.ID
	Reason  string

	// ConflictResolved fields.
	Loser  PlaybackID
	Winner PlaybackID

	// Error fields.
	Err error
}
