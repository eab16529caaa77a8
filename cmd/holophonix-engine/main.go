// Command holophonix-engine boots the animation engine: it loads
// configuration, seeds a minimal track set, wires the orchestrator,
// optimiser, transport, and device mirror together, and runs the engine
// actor until interrupted. Editing animations, authoring projects, and
// persisting sessions are all an external authoring tool's job (§1); this
// binary only runs the real-time core and the read-only status surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"holophonix-engine/internal/clock"
	"holophonix-engine/internal/config"
	"holophonix-engine/internal/engine"
	"holophonix-engine/internal/statusapi"
	"holophonix-engine/internal/track"
)

func main() {
	cfg := config.Load()

	logFormat := flag.String("log-format", "text", "log output format: text or json")
	oscHost := flag.String("osc-host", cfg.OSCHost, "Holophonix device host/IP")
	oscPort := flag.Int("osc-port", cfg.OSCPort, "Holophonix device OSC/UDP port")
	listenPort := flag.Int("listen-port", cfg.ListenPort, "inbound UDP port for device OSC replies")
	frameRate := flag.Int("frame-rate", cfg.FrameRateHz, "tick loop frame rate in Hz")
	maxConcurrent := flag.Int("max-concurrent-playbacks", cfg.MaxConcurrentPlaybacks, "maximum simultaneous playbacks")
	statusAddr := flag.String("status-addr", cfg.StatusAPIAddr, "status API listen address (empty disables it)")
	numTracks := flag.Int("tracks", 8, "number of tracks to seed at boot, indexed 1..N")
	flag.Parse()

	installLogger(*logFormat)

	cfg.OSCHost = *oscHost
	cfg.OSCPort = *oscPort
	cfg.ListenPort = *listenPort
	cfg.FrameRateHz = *frameRate
	cfg.MaxConcurrentPlaybacks = *maxConcurrent
	cfg.StatusAPIAddr = *statusAddr

	tracks := seedTracks(*numTracks)

	clk := clock.New()
	eng, err := engine.New(cfg, clk, tracks)
	if err != nil {
		slog.Error("holophonix-engine: construct engine", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if cfg.StatusAPIAddr != "" {
		api := statusapi.New(eng)
		go func() {
			if err := api.Run(ctx, cfg.StatusAPIAddr); err != nil {
				slog.Error("holophonix-engine: status api stopped", "err", err)
			}
		}()
		slog.Info("holophonix-engine: status api listening", "addr", cfg.StatusAPIAddr)
	}

	slog.Info("holophonix-engine: starting",
		"osc_target", fmt.Sprintf("%s:%d", cfg.OSCHost, cfg.OSCPort),
		"listen_port", cfg.ListenPort,
		"frame_rate_hz", cfg.FrameRateHz,
		"tracks", *numTracks,
	)

	if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("holophonix-engine: run", "err", err)
		os.Exit(1)
	}
	slog.Info("holophonix-engine: shut down")
}

// installLogger replaces the default slog logger with a handler writing to
// stderr in the requested format, matching the teacher's flag-driven
// bootstrap in server/main.go.
func installLogger(format string) {
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, nil)
	default:
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// seedTracks builds a flat track set at the origin, indexed 1..n. A real
// deployment's tracks come from the authoring tool's project file (§1,
// out of scope here); this only gives the engine something to animate
// before that collaborator's first update arrives.
func seedTracks(n int) *track.Set {
	list := make([]*track.Track, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, &track.Track{
			ID:              track.NewID(),
			HolophonixIndex: i,
			Name:            fmt.Sprintf("Track %d", i),
			Color:           track.Color{R: 1, G: 1, B: 1, A: 1},
		})
	}
	return track.NewSet(list)
}
