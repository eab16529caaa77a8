package statusapi

import (
	"context"
	"log/slog"
	"sync"

	"holophonix-engine/internal/engine"
	"holophonix-engine/internal/orchestrator"
)

// eventMessage is the wire shape sent to each /events WebSocket client.
type eventMessage struct {
	Kind      string `json:"kind"`
	Playback  string `json:"playback,omitempty"`
	Track     string `json:"track,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Available *bool  `json:"available,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// hub fans out the engine's single event stream to every connected
// WebSocket session, mirroring the teacher's ChannelState.Broadcast
// pattern for a single shared producer with many consumers.
type hub struct {
	mu       sync.Mutex
	sessions map[chan eventMessage]struct{}
}

func newHub() *hub {
	return &hub{sessions: make(map[chan eventMessage]struct{})}
}

func (h *hub) subscribe() chan eventMessage {
	ch := make(chan eventMessage, 32)
	h.mu.Lock()
	h.sessions[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(ch chan eventMessage) {
	h.mu.Lock()
	delete(h.sessions, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *hub) broadcast(msg eventMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.sessions {
		select {
		case ch <- msg:
		default:
			slog.Warn("statusapi: event dropped, subscriber too slow")
		}
	}
}

// run drains eng.Events() and fans each one out to the hub until ctx is
// cancelled. The caller starts it in its own goroutine.
func (h *hub) run(ctx context.Context, eng *engine.Engine) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eng.Events():
			h.broadcast(toEventMessage(ev))
		}
	}
}

func toEventMessage(ev engine.Event) eventMessage {
	switch e := ev.(type) {
	case engine.PlaybackEvent:
		msg := eventMessage{Kind: "playback_" + string(e.Kind), Reason: e.Reason}
		if (e.PlaybackID != orchestrator.PlaybackID{}) {
			msg.Playback = e.PlaybackID.String()
		}
		if e.Err != nil {
			msg.LastError = e.Err.Error()
		}
		return msg
	case engine.DeviceAvailabilityEvent:
		avail := e.Available
		return eventMessage{Kind: "device_availability", Available: &avail, LastError: e.LastError}
	case engine.TickTelemetryEvent:
		return eventMessage{Kind: "tick_telemetry"}
	default:
		return eventMessage{Kind: "unknown"}
	}
}
