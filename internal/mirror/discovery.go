package mirror

import (
	"context"
	"fmt"
	"time"

	"holophonix-engine/internal/oscwire"
)

// Sender is the minimal outbound surface discovery and liveness need: a
// direct, unqueued control send.
type Sender interface {
	SendControl(msg oscwire.ControlMsg) error
}

// DiscoveryConfig tunes the startup sweep that populates the mirror from
// the device's own track list.
type DiscoveryConfig struct {
	MaxProbe     int
	StepDelay    time.Duration
	EndGrace     time.Duration
}

// DefaultDiscoveryConfig mirrors the pacing the device tolerates without
// dropping requests: one probe triplet every 40ms, capped at 128 tracks,
// with a 2s grace period after the last probe before declaring the sweep
// complete.
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{MaxProbe: 128, StepDelay: 40 * time.Millisecond, EndGrace: 2 * time.Second}
}

// Discoverer runs the one-shot startup sweep that asks the device, index by
// index, for each track's name/position/color until the device reports an
// index as unreachable.
type Discoverer struct {
	cfg    DiscoveryConfig
	sender Sender
	mirror *Mirror
}

// NewDiscoverer builds a Discoverer that sends probes via sender and
// records responses (via the Listener wired to the same Mirror) into m.
func NewDiscoverer(cfg DiscoveryConfig, sender Sender, m *Mirror) *Discoverer {
	return &Discoverer{cfg: cfg, sender: sender, mirror: m}
}

// Run sweeps indices 1..MaxProbe, stopping early once the mirror records a
// failed index, then waits EndGrace for straggling responses before
// returning.
func (d *Discoverer) Run(ctx context.Context) error {
	for i := 1; i <= d.cfg.MaxProbe; i++ {
		if d.mirror.IsFailed(i) {
			break
		}
		if err := d.probeOne(i); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.cfg.StepDelay):
		}
		if d.mirror.IsFailed(i) {
			break
		}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.cfg.EndGrace):
	}
	return nil
}

func (d *Discoverer) probeOne(idx int) error {
	for _, suffix := range []string{"name", "xyz", "color"} {
		msg := oscwire.ControlMsg{
			Address: "/get",
			Args:    []interface{}{fmt.Sprintf("/track/%d/%s", idx, suffix)},
		}
		if err := d.sender.SendControl(msg); err != nil {
			return err
		}
	}
	return nil
}
