package engine

import (
	"time"

	"holophonix-engine/internal/optimiser"
	"holophonix-engine/internal/orchestrator"
)

// Event is the tagged union the engine actor emits on its single outbound
// event channel.
type Event interface {
	eventTag()
}

// PlaybackEvent wraps one orchestrator lifecycle event (Started, Stopped,
// Paused, Resumed, Completed, EvaluationWarning, ConflictResolved, Error).
type PlaybackEvent struct {
	orchestrator.Event
}

// DeviceAvailabilityEvent fires whenever the liveness probe flips the
// device between available and unavailable.
type DeviceAvailabilityEvent struct {
	Available bool
	LastError string
	At        time.Time
}

// TickTelemetryEvent reports one tick's optimiser compression stats plus
// the outbound queue's current depth and cumulative counters.
type TickTelemetryEvent struct {
	optimiser.Telemetry
	QueueLen int
	Dropped  uint64
	Sent     uint64
	At       time.Time
}

func (PlaybackEvent) eventTag()           {}
func (DeviceAvailabilityEvent) eventTag() {}
func (TickTelemetryEvent) eventTag()      {}
