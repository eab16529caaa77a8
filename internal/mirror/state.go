// Package mirror maintains the engine's read cache of device state: the
// last observed per-track name/position/colour, the set of indices the
// device has reported as unreachable, and device liveness via a periodic
// probe/response. It is exclusively mutated by the inbound recv loop
// (§5); everything else reads an immutable Snapshot.
package mirror

import (
	"strconv"
	"sync"
	"time"

	"holophonix-engine/internal/track"
	"holophonix-engine/internal/vector"
)

// Entry is one track's last-observed device state.
type Entry struct {
	HolophonixIndex int
	Name            string
	Position        vector.Position
	Color           track.Color
	LastSeen        time.Time
}

// Snapshot is an immutable, point-in-time copy of the device mirror.
type Snapshot struct {
	Tracks           map[int]Entry
	FailedIndices    map[int]bool
	MaxValidIndex    int
	HasMaxValidIndex bool
	LastError        string
	LastCheckAt      time.Time
	Available        bool
}

// Animating reports whether a playback currently owns the track at a given
// Holophonix index. The device is the source of truth for initial
// positions, but while an animation is mid-flight its position echoes must
// be ignored so the engine doesn't fight itself (§7).
type Animating interface {
	IsAnimating(holophonixIndex int) bool
}

// Mirror is the owning cache. Its zero value is not usable; construct with
// New.
type Mirror struct {
	mu sync.RWMutex

	tracks        map[int]*Entry
	failedIndices map[int]bool
	maxValidIndex int
	hasMaxValid   bool
	lastError     string
	lastCheckAt   time.Time
	available     bool

	animating Animating

	onAvailability AvailabilityListener
}

// AvailabilityListener is notified whenever the device's observed liveness
// flips between available and unavailable.
type AvailabilityListener func(available bool, lastError string, at time.Time)

// New builds an empty Mirror. animating may be nil, in which case position
// echoes are never suppressed (useful for standalone discovery tooling).
func New(animating Animating) *Mirror {
	return &Mirror{
		tracks:        make(map[int]*Entry),
		failedIndices: make(map[int]bool),
		animating:     animating,
	}
}

// SetAvailabilityListener installs fn to be called whenever MarkProbeMatched
// or MarkProbeTimedOut changes the device's observed availability. fn is
// called without the Mirror's lock held.
func (m *Mirror) SetAvailabilityListener(fn AvailabilityListener) {
	m.mu.Lock()
	m.onAvailability = fn
	m.mu.Unlock()
}

func (m *Mirror) entryLocked(idx int) *Entry {
	e, ok := m.tracks[idx]
	if !ok {
		e = &Entry{HolophonixIndex: idx}
		m.tracks[idx] = e
	}
	return e
}

// ApplyName records a `/track/N/name` response.
func (m *Mirror) ApplyName(idx int, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryLocked(idx)
	e.Name = name
	e.LastSeen = time.Now()
}

// ApplyPosition records a `/track/N/xyz` or decoded `/track/N/aed` response.
// It is dropped if the track is currently under animation control.
func (m *Mirror) ApplyPosition(idx int, pos vector.Position) {
	if m.animating != nil && m.animating.IsAnimating(idx) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryLocked(idx)
	e.Position = pos
	e.LastSeen = time.Now()
}

// ApplyColor records a `/track/N/color` response.
func (m *Mirror) ApplyColor(idx int, c track.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryLocked(idx)
	e.Color = c
	e.LastSeen = time.Now()
}

// MarkFailed records a `/error "from Core: Cannot get track,N,..."`
// response: index idx is unreachable, and the highest confirmed-valid
// index is capped just below it (§4.6).
func (m *Mirror) MarkFailed(idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failedIndices[idx] = true
	cap := idx - 1
	if !m.hasMaxValid || cap > m.maxValidIndex {
		m.maxValidIndex = cap
		m.hasMaxValid = true
	}
	m.lastError = "from Core: Cannot get track," + strconv.Itoa(idx)
}

// MarkProbeMatched records that a liveness probe response arrived.
func (m *Mirror) MarkProbeMatched() {
	m.mu.Lock()
	was := m.available
	m.available = true
	m.lastCheckAt = time.Now()
	fn, at, err := m.onAvailability, m.lastCheckAt, m.lastError
	m.mu.Unlock()
	if fn != nil && !was {
		fn(true, err, at)
	}
}

// MarkProbeTimedOut records that a liveness probe window elapsed with no
// matching response.
func (m *Mirror) MarkProbeTimedOut(lastErr string) {
	m.mu.Lock()
	was := m.available
	m.available = false
	m.lastCheckAt = time.Now()
	if lastErr != "" {
		m.lastError = lastErr
	}
	fn, at, err := m.onAvailability, m.lastCheckAt, m.lastError
	m.mu.Unlock()
	if fn != nil && was {
		fn(false, err, at)
	}
}

// IsFailed reports whether idx has been marked unreachable.
func (m *Mirror) IsFailed(idx int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failedIndices[idx]
}

// Available reports the mirror's last-known device liveness.
func (m *Mirror) Available() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available
}

// Snapshot returns an immutable copy of the mirror's current state.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tracks := make(map[int]Entry, len(m.tracks))
	for idx, e := range m.tracks {
		tracks[idx] = *e
	}
	failed := make(map[int]bool, len(m.failedIndices))
	for idx := range m.failedIndices {
		failed[idx] = true
	}
	return Snapshot{
		Tracks:           tracks,
		FailedIndices:    failed,
		MaxValidIndex:    m.maxValidIndex,
		HasMaxValidIndex: m.hasMaxValid,
		LastError:        m.lastError,
		LastCheckAt:      m.lastCheckAt,
		Available:        m.available,
	}
}
