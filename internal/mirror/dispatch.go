package mirror

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/hypebeast/go-osc/osc"

	"holophonix-engine/internal/track"
	"holophonix-engine/internal/vector"
)

// AnimControl relays `/anim/*` inbound OSC messages into playback
// operations. The engine implements it; mirror only parses and forwards.
type AnimControl interface {
	Play(name string, trackIndices []int) error
	Stop(name string) error
	Pause(name string) error
	Resume(name string) error
	Seek(name string, tSec float64) error
	GotoStart(name string) error
	SetSpeed(name string, speed float64) error
	SetLoop(name string, loop bool) error
	SetPingPong(name string, pingPong bool) error
}

// Listener owns the inbound OSC server: it decodes `/track/*` device
// echoes into Mirror updates and `/anim/*` messages into AnimControl calls.
type Listener struct {
	mirror *Mirror
	anim   AnimControl
	server *osc.Server
}

// NewListener builds a Listener bound to addr (host:port, e.g. ":9000").
// anim may be nil if inbound animation control is not wanted.
func NewListener(addr string, m *Mirror, anim AnimControl) *Listener {
	l := &Listener{mirror: m, anim: anim}
	d := osc.NewStandardDispatcher()
	d.AddMsgHandler("/track/*", l.handleTrack)
	d.AddMsgHandler("/error", l.handleError)
	d.AddMsgHandler("/anim/*", l.handleAnim)
	l.server = &osc.Server{Addr: addr, Dispatcher: d}
	return l
}

// ListenAndServe blocks serving inbound OSC. Callers typically run it in its
// own goroutine and log the returned error.
func (l *Listener) ListenAndServe() error {
	return l.server.ListenAndServe()
}

func (l *Listener) handleTrack(msg *osc.Message) {
	addr := msg.Address
	idx, field, ok := parseTrackAddress(addr)
	if !ok {
		slog.Warn("mirror: unrecognised track address", "address", addr)
		return
	}
	switch field {
	case "name":
		if s, ok := stringArg(msg, 0); ok {
			l.mirror.ApplyName(idx, s)
			if idx == 1 {
				l.mirror.MarkProbeMatched()
			}
		}
	case "xyz":
		x, okx := floatArg(msg, 0)
		y, oky := floatArg(msg, 1)
		z, okz := floatArg(msg, 2)
		if okx && oky && okz {
			l.mirror.ApplyPosition(idx, vector.Position{X: x, Y: y, Z: z})
		}
	case "aed":
		az, oka := floatArg(msg, 0)
		el, oke := floatArg(msg, 1)
		dist, okd := floatArg(msg, 2)
		if oka && oke && okd {
			l.mirror.ApplyPosition(idx, vector.AEDToXYZ(vector.AED{Azimuth: az, Elevation: el, Distance: dist}))
		}
	case "color":
		r, okr := floatArg(msg, 0)
		g, okg := floatArg(msg, 1)
		b, okb := floatArg(msg, 2)
		a, oka := floatArg(msg, 3)
		if okr && okg && okb {
			if !oka {
				a = 1
			}
			l.mirror.ApplyColor(idx, track.Color{R: r, G: g, B: b, A: a})
		}
	}
}

func (l *Listener) handleError(msg *osc.Message) {
	s, ok := stringArg(msg, 0)
	if !ok {
		return
	}
	idx, ok := parseFailedTrackIndex(s)
	if !ok {
		return
	}
	l.mirror.MarkFailed(idx)
}

func (l *Listener) handleAnim(msg *osc.Message) {
	if l.anim == nil {
		return
	}
	parts := strings.Split(strings.TrimPrefix(msg.Address, "/anim/"), "/")
	if len(parts) < 2 {
		return
	}
	name, op := parts[0], parts[1]
	var err error
	switch op {
	case "play":
		err = l.anim.Play(name, nil)
	case "stop":
		err = l.anim.Stop(name)
	case "pause":
		err = l.anim.Pause(name)
	case "resume":
		err = l.anim.Resume(name)
	case "gotostart":
		err = l.anim.GotoStart(name)
	case "seek":
		if t, ok := floatArg(msg, 0); ok {
			err = l.anim.Seek(name, t)
		}
	case "speed":
		if s, ok := floatArg(msg, 0); ok {
			err = l.anim.SetSpeed(name, s)
		}
	case "loop":
		if b, ok := boolArg(msg, 0); ok {
			err = l.anim.SetLoop(name, b)
		}
	case "pingpong":
		if b, ok := boolArg(msg, 0); ok {
			err = l.anim.SetPingPong(name, b)
		}
	default:
		return
	}
	if err != nil {
		slog.Warn("mirror: anim control failed", "name", name, "op", op, "err", err)
	}
}

// parseTrackAddress extracts the Holophonix index and field name from a
// concrete incoming address like "/track/7/xyz".
func parseTrackAddress(addr string) (idx int, field string, ok bool) {
	parts := strings.Split(addr, "/")
	if len(parts) != 4 || parts[0] != "" || parts[1] != "track" {
		return 0, "", false
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, "", false
	}
	return n, parts[3], true
}

// parseFailedTrackIndex extracts the index from a "from Core: Cannot get
// track,N,..." error string.
func parseFailedTrackIndex(s string) (int, bool) {
	const marker = "track,"
	i := strings.Index(s, marker)
	if i < 0 {
		return 0, false
	}
	rest := s[i+len(marker):]
	j := strings.IndexAny(rest, ",")
	if j >= 0 {
		rest = rest[:j]
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false
	}
	return n, true
}

func stringArg(msg *osc.Message, i int) (string, bool) {
	if i >= len(msg.Arguments) {
		return "", false
	}
	s, ok := msg.Arguments[i].(string)
	return s, ok
}

func floatArg(msg *osc.Message, i int) (float64, bool) {
	if i >= len(msg.Arguments) {
		return 0, false
	}
	switch v := msg.Arguments[i].(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	default:
		return 0, false
	}
}

func boolArg(msg *osc.Message, i int) (bool, bool) {
	if i >= len(msg.Arguments) {
		return false, false
	}
	switch v := msg.Arguments[i].(type) {
	case bool:
		return v, true
	case int32:
		return v != 0, true
	case float32:
		return v != 0, true
	default:
		return false, false
	}
}
