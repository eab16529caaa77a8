// Package engine wires the orchestrator, optimiser, transport, and device
// mirror together and runs the engine actor: one goroutine that owns
// orchestrator/transport mutation and drains a command channel, plus the
// transport send/recv loops and the discovery/liveness probes it starts
// alongside it.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"holophonix-engine/internal/clock"
	"holophonix-engine/internal/config"
	"holophonix-engine/internal/mirror"
	"holophonix-engine/internal/models"
	"holophonix-engine/internal/optimiser"
	"holophonix-engine/internal/orchestrator"
	"holophonix-engine/internal/track"
	"holophonix-engine/internal/transport"
)

// Engine owns every stateful component and exposes exactly one command
// channel in and one event channel out.
type Engine struct {
	cfg     config.Config
	clk     clock.Clock
	tracks  *track.Set
	catalog *Catalog
	orch    *orchestrator.Orchestrator
	opt     *optimiser.Optimiser
	out     *transport.Outbound
	mir     *mirror.Mirror
	list    *mirror.Listener
	disc    *mirror.Discoverer
	live    *mirror.LivenessProbe

	commands chan Command
	events   chan Event
}

// New constructs an Engine over tracks, dialing the configured outbound
// socket and binding the configured inbound listener. It does not start
// any goroutine; call Run for that.
func New(cfg config.Config, clk clock.Clock, tracks *track.Set) (*Engine, error) {
	orchCfg := orchestrator.Config{
		MaxConcurrentPlaybacks: cfg.MaxConcurrentPlaybacks,
		ConflictStrategy:       parseConflictStrategy(cfg.DefaultConflictStrategy),
	}
	orch := orchestrator.New(orchCfg, clk, tracks)

	optCfg := optimiser.Config{
		IncrementalThresholdXYZ:     cfg.IncrementalThresholdXYZ,
		IncrementalThresholdAEDDeg:  cfg.IncrementalThresholdAED,
		IncrementalThresholdAEDDist: cfg.IncrementalThresholdAED / 5,
		SingleAxisThreshold:         cfg.SingleAxisThreshold,
		EnableIncrementalUpdates:    cfg.EnableIncrementalUpdates,
		EnablePatternMatching:       cfg.EnablePatternMatching,
		AutoSelectCoordinateSystem:  cfg.AutoSelectCoordinateSystem,
		ForceCoordinateSystem:       parseCoordinateSystem(cfg.ForceCoordinateSystem),
	}
	opt := optimiser.New(optCfg)

	transportCfg := transport.Config{
		Host:            cfg.OSCHost,
		Port:            cfg.OSCPort,
		SendBufferBytes: cfg.OSCSendBufferBytes,
		MaxQueue:        cfg.MaxQueue,
		MaxBatchSize:    cfg.MaxBatchSize,
		MinThrottleMs:   cfg.MinThrottleMs,
		MaxThrottleMs:   cfg.MaxThrottleMs,
	}
	out, err := transport.NewOutbound(transportCfg)
	if err != nil {
		return nil, fmt.Errorf("engine: dial outbound: %w", err)
	}

	mir := mirror.New(orch)

	e := &Engine{
		cfg:      cfg,
		clk:      clk,
		tracks:   tracks,
		catalog:  NewCatalog(),
		orch:     orch,
		opt:      opt,
		out:      out,
		mir:      mir,
		commands: make(chan Command, 64),
		events:   make(chan Event, 256),
	}

	e.list = mirror.NewListener(fmt.Sprintf(":%d", cfg.ListenPort), mir, e.animControl())
	e.disc = mirror.NewDiscoverer(mirror.DiscoveryConfig{
		MaxProbe:  cfg.DiscoveryMaxProbe,
		StepDelay: 40 * time.Millisecond,
		EndGrace:  2 * time.Second,
	}, out, mir)
	e.live = mirror.NewLivenessProbe(mirror.LivenessConfig{
		Interval: time.Duration(cfg.AvailabilityIntervalMs) * time.Millisecond,
		Deadline: time.Duration(cfg.ProbeDeadlineMs) * time.Millisecond,
	}, out, mir)
	mir.SetAvailabilityListener(func(available bool, lastError string, at time.Time) {
		e.emit(DeviceAvailabilityEvent{Available: available, LastError: lastError, At: at})
	})

	return e, nil
}

// Commands returns the channel callers submit Command values into.
func (e *Engine) Commands() chan<- Command { return e.commands }

// Events returns the engine's single outbound event stream.
func (e *Engine) Events() <-chan Event { return e.events }

// Orchestrator exposes the underlying orchestrator for read-only snapshot
// consumers (status API, discovery's IsAnimating check).
func (e *Engine) Orchestrator() *orchestrator.Orchestrator { return e.orch }

// Mirror exposes the device mirror for read-only snapshot consumers.
func (e *Engine) Mirror() *mirror.Mirror { return e.mir }

// Catalog exposes the named-animation catalog so the boot sequence can
// register animations loaded from the external collaborator's project
// snapshot.
func (e *Engine) Catalog() *Catalog { return e.catalog }

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		slog.Warn("engine: event dropped, listener too slow")
	}
}

// Run starts every goroutine the engine needs — the tick loop, the command
// loop, transport send/recv, and discovery/liveness — and blocks until ctx
// is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	go e.out.Run(ctx)

	go func() {
		if err := e.list.ListenAndServe(); err != nil {
			slog.Error("engine: inbound osc listener stopped", "err", err)
		}
	}()

	go func() {
		if err := e.disc.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("engine: discovery sweep failed", "err", err)
		}
	}()

	go e.live.Run(ctx)

	go e.forwardOrchestratorEvents(ctx)

	e.commandLoop(ctx)
	return ctx.Err()
}

// commandLoop owns the only goroutine that calls into the orchestrator for
// command processing and the tick loop; both are safe here since the
// orchestrator's own lock already serialises concurrent access, but
// keeping them on one goroutine keeps the "single actor" contract legible.
func (e *Engine) commandLoop(ctx context.Context) {
	interval := time.Second / time.Duration(e.cfg.FrameRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-e.commands:
			e.handleCommand(cmd)
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) handleCommand(cmd Command) {
	switch c := cmd.(type) {
	case PlayCommand:
		id, err := e.orch.Play(c.Request)
		reply(c.Reply, PlayResult{ID: id, Err: err})
	case StopCommand:
		reply(c.Reply, e.orch.Stop(c.ID))
	case PauseCommand:
		reply(c.Reply, e.orch.Pause(c.ID))
	case ResumeCommand:
		reply(c.Reply, e.orch.Resume(c.ID))
	case SeekCommand:
		reply(c.Reply, e.orch.Seek(c.ID, c.Seconds))
	case SetSpeedCommand:
		reply(c.Reply, e.orch.SetSpeed(c.ID, c.Speed))
	case StopAllCommand:
		e.orch.StopAll()
	case ScheduleCommand:
		reply(c.Reply, e.orch.Schedule(c.Request, c.ExecuteAt))
	case CancelScheduleCommand:
		reply(c.Reply, e.orch.CancelSchedule(c.ID))
	case SetLoopCommand:
		reply(c.Reply, e.orch.SetLoop(c.ID, c.Loop))
	case SetPingPongCommand:
		reply(c.Reply, e.orch.SetPingPong(c.ID, c.PingPong))
	default:
		slog.Warn("engine: unknown command", "type", fmt.Sprintf("%T", cmd))
	}
}

// reply sends v on ch if ch is non-nil, without blocking indefinitely: the
// channel is expected to be buffered by at least one slot by the caller.
func reply[T any](ch chan<- T, v T) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}

func (e *Engine) tick() {
	now := e.clk.Now()
	updates := e.orch.Tick(now)
	if len(updates) == 0 {
		return
	}
	result := e.opt.Optimise(updates)
	e.out.EnqueueAll(result.Messages)

	e.emit(TickTelemetryEvent{
		Telemetry: result.Telemetry,
		QueueLen:  e.out.Len(),
		Dropped:   e.out.Dropped(),
		Sent:      e.out.Sent(),
		At:        now,
	})
}

func (e *Engine) forwardOrchestratorEvents(ctx context.Context) {
	ch := e.orch.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			if ev.Kind == orchestrator.EventStopped {
				if err := e.out.RecreateSocket(); err != nil {
					slog.Warn("engine: socket recreate after stop failed", "err", err)
				}
			}
			e.emit(PlaybackEvent{Event: ev})
		}
	}
}

func parseConflictStrategy(s string) orchestrator.ConflictStrategy {
	switch strings.ToLower(s) {
	case "stopexisting":
		return orchestrator.StopExisting
	case "rejectnew":
		return orchestrator.RejectNew
	case "allowconcurrent":
		return orchestrator.AllowConcurrent
	default:
		return orchestrator.PriorityBased
	}
}

func parseCoordinateSystem(c config.CoordinateSystem) *models.CoordinateSystem {
	switch c {
	case config.CoordinateSystemXYZ:
		v := models.XYZ
		return &v
	case config.CoordinateSystemAED:
		v := models.AED
		return &v
	default:
		return nil
	}
}
