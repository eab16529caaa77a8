package mirror

import (
	"context"
	"time"

	"holophonix-engine/internal/oscwire"
)

// LivenessConfig tunes the periodic device-availability probe.
type LivenessConfig struct {
	Interval time.Duration
	Deadline time.Duration
}

// DefaultLivenessConfig probes once every 5s and allows 900ms for a
// response before declaring the device unavailable.
func DefaultLivenessConfig() LivenessConfig {
	return LivenessConfig{Interval: 5 * time.Second, Deadline: 900 * time.Millisecond}
}

// LivenessProbe periodically asks the device for track 1's name and
// reports whether a response arrived inside the deadline.
type LivenessProbe struct {
	cfg    LivenessConfig
	sender Sender
	mirror *Mirror
}

// NewLivenessProbe builds a LivenessProbe.
func NewLivenessProbe(cfg LivenessConfig, sender Sender, m *Mirror) *LivenessProbe {
	return &LivenessProbe{cfg: cfg, sender: sender, mirror: m}
}

// Run drives the probe loop until ctx is cancelled. The Listener wired to
// the same Mirror records matching responses via MarkProbeMatched; Run
// itself only decides whether one arrived before the deadline elapsed.
func (p *LivenessProbe) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probeOnce(ctx)
		}
	}
}

func (p *LivenessProbe) probeOnce(ctx context.Context) {
	before := p.mirror.Snapshot().LastCheckAt
	msg := oscwire.ControlMsg{Address: "/get", Args: []interface{}{"/track/1/name"}}
	if err := p.sender.SendControl(msg); err != nil {
		p.mirror.MarkProbeTimedOut(err.Error())
		return
	}

	timer := time.NewTimer(p.cfg.Deadline)
	defer timer.Stop()
	poll := time.NewTicker(20 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.mirror.MarkProbeTimedOut("liveness probe deadline exceeded")
			return
		case <-poll.C:
			snap := p.mirror.Snapshot()
			if snap.LastCheckAt.After(before) && snap.Available {
				return
			}
		}
	}
}
