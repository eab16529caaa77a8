package transport

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"holophonix-engine/internal/oscwire"
)

type queueItem struct {
	msg  oscwire.Msg
	keys []oscwire.CoalesceKey
}

// Outbound is the bounded, coalescing send queue and its adaptive-throttle
// drain loop (§4.6, §5).
type Outbound struct {
	cfg Config

	mu         sync.Mutex
	sock       *socket
	items      []queueItem
	throttleMs int
	dropped    uint64
	sent       uint64
	coalesced  uint64
}

// NewOutbound dials the device endpoint and returns a ready Outbound. The
// caller must run Run in its own goroutine to start draining the queue.
func NewOutbound(cfg Config) (*Outbound, error) {
	sock, err := dialSocket(cfg.Host, cfg.Port, cfg.SendBufferBytes)
	if err != nil {
		return nil, err
	}
	return &Outbound{cfg: cfg, sock: sock, throttleMs: cfg.MinThrottleMs}, nil
}

// Enqueue adds msg to the queue. Any pending message sharing a (track,
// axis) coalescing key is dropped in favour of msg; if the queue is still
// at capacity afterward, msg itself is dropped and droppedCount increments
// (§3 OutboundQueue, §4.6).
func (o *Outbound) Enqueue(msg oscwire.Msg) {
	o.mu.Lock()
	defer o.mu.Unlock()

	newKeys := msg.Keys()
	kept := o.items[:0]
	for _, it := range o.items {
		if oscwire.KeysOverlap(it.keys, newKeys) {
			o.coalesced++
			continue
		}
		kept = append(kept, it)
	}
	o.items = kept

	if len(o.items) >= o.cfg.MaxQueue {
		o.dropped++
		return
	}
	o.items = append(o.items, queueItem{msg: msg, keys: newKeys})
}

// EnqueueAll enqueues every message in msgs, in order.
func (o *Outbound) EnqueueAll(msgs []oscwire.Msg) {
	for _, m := range msgs {
		o.Enqueue(m)
	}
}

// Len reports the number of messages currently queued.
func (o *Outbound) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}

// Dropped reports the cumulative count of messages dropped for a full
// queue.
func (o *Outbound) Dropped() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}

// Sent reports the cumulative count of messages successfully written to
// the socket.
func (o *Outbound) Sent() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sent
}

func (o *Outbound) drainBatch(n int) []oscwire.Msg {
	o.mu.Lock()
	defer o.mu.Unlock()
	if n > len(o.items) {
		n = len(o.items)
	}
	out := make([]oscwire.Msg, n)
	for i := 0; i < n; i++ {
		out[i] = o.items[i].msg
	}
	o.items = o.items[n:]
	return out
}

// RecreateSocket discards the current socket and dials a fresh one,
// dropping any OS-level buffered datagrams so a stopped playback's final
// return-to-initial isn't tailed by stale sends (§4.6).
func (o *Outbound) RecreateSocket() error {
	o.mu.Lock()
	old := o.sock
	o.mu.Unlock()

	fresh, err := dialSocket(o.cfg.Host, o.cfg.Port, o.cfg.SendBufferBytes)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.sock = fresh
	o.mu.Unlock()

	if old != nil {
		_ = old.close()
	}
	return nil
}

// SendControl writes a non-positional control message (e.g. `/get`, an
// `/anim/*` relay) directly to the socket, bypassing the position queue:
// discovery and the liveness probe pace their own sends explicitly and
// don't participate in per-axis coalescing.
func (o *Outbound) SendControl(msg oscwire.ControlMsg) error {
	o.mu.Lock()
	sock := o.sock
	o.mu.Unlock()
	return sock.sendControl(msg)
}

// Close releases the socket.
func (o *Outbound) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sock.close()
}

// Run drives the adaptive-throttle send loop until ctx is cancelled: every
// throttleMs it drains up to maxBatchSize messages and writes them, then
// adjusts throttleMs up under backlog or down under light load (§4.6, §5).
func (o *Outbound) Run(ctx context.Context) {
	timer := time.NewTimer(o.currentThrottle())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			batch := o.drainBatch(o.cfg.MaxBatchSize)
			for _, msg := range batch {
				if err := o.sendOne(msg); err != nil {
					slog.Warn("transport: send failed", "address", msg.Address, "err", err)
				}
			}
			backlog := len(batch) == o.cfg.MaxBatchSize && o.Len() > 0
			o.adjustThrottle(backlog)
			timer.Reset(o.currentThrottle())
		}
	}
}

func (o *Outbound) sendOne(msg oscwire.Msg) error {
	o.mu.Lock()
	sock := o.sock
	o.mu.Unlock()
	if err := sock.send(msg); err != nil {
		return err
	}
	o.mu.Lock()
	o.sent++
	o.mu.Unlock()
	return nil
}

func (o *Outbound) currentThrottle() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return time.Duration(o.throttleMs) * time.Millisecond
}

func (o *Outbound) adjustThrottle(backlog bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	const step = 10
	if backlog {
		o.throttleMs += step
		if o.throttleMs > o.cfg.MaxThrottleMs {
			o.throttleMs = o.cfg.MaxThrottleMs
		}
		return
	}
	o.throttleMs -= step
	if o.throttleMs < o.cfg.MinThrottleMs {
		o.throttleMs = o.cfg.MinThrottleMs
	}
}
