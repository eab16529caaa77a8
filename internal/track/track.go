// Package track holds the project's track list: the device-addressable
// sound sources an animation can move. Tracks are otherwise owned by the
// external authoring-tool collaborator (§6.2); this package only defines
// the shared shape and the invariant that governs who may write Position.
package track

import (
	"github.com/google/uuid"

	"holophonix-engine/internal/vector"
)

// ID is a track's opaque local identifier, independent of its Holophonix
// index.
type ID uuid.UUID

// NewID returns a fresh random track ID.
func NewID() ID { return ID(uuid.New()) }

func (id ID) String() string { return uuid.UUID(id).String() }

// Color is an RGBA color with each channel in [0,1].
type Color struct {
	R, G, B, A float64
}

// Track is one device-addressable sound source.
type Track struct {
	ID               ID
	HolophonixIndex  int // 1-based, contiguous from the device
	Name             string
	Color            Color
	Position         vector.Position
	InitialPosition  vector.Position
}

// Set is an indexed, read-only-by-convention view of the project's tracks.
// Callers outside the owning collaborator must treat it as a snapshot.
type Set struct {
	byID    map[ID]*Track
	byIndex map[int]*Track
}

// NewSet builds a Set from tracks. Later entries with a duplicate ID or
// HolophonixIndex overwrite earlier ones.
func NewSet(tracks []*Track) *Set {
	s := &Set{byID: make(map[ID]*Track, len(tracks)), byIndex: make(map[int]*Track, len(tracks))}
	for _, tr := range tracks {
		s.byID[tr.ID] = tr
		s.byIndex[tr.HolophonixIndex] = tr
	}
	return s
}

// ByID looks up a track by its opaque ID.
func (s *Set) ByID(id ID) (*Track, bool) {
	tr, ok := s.byID[id]
	return tr, ok
}

// ByIndex looks up a track by its Holophonix index.
func (s *Set) ByIndex(idx int) (*Track, bool) {
	tr, ok := s.byIndex[idx]
	return tr, ok
}

// Upsert inserts tr or overwrites the existing entry with the same ID.
func (s *Set) Upsert(tr *Track) {
	s.byID[tr.ID] = tr
	s.byIndex[tr.HolophonixIndex] = tr
}

// All returns every track in the set, in no particular order.
func (s *Set) All() []*Track {
	out := make([]*Track, 0, len(s.byID))
	for _, tr := range s.byID {
		out = append(out, tr)
	}
	return out
}

// SetInitialPosition updates a track's InitialPosition. Callers must only
// invoke this when no playback owns the track (§3: "only mutated when no
// playback controls the track"); this method does not check it.
func (tr *Track) SetInitialPosition(p vector.Position) {
	tr.InitialPosition = p
}
