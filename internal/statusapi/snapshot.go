package statusapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type trackState struct {
	HolophonixIndex int     `json:"holophonix_index"`
	Name            string  `json:"name"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Z               float64 `json:"z"`
	Failed          bool    `json:"failed"`
}

type playbackState struct {
	ID            string  `json:"id"`
	AnimationName string  `json:"animation_name"`
	State         string  `json:"state"`
	Priority      int     `json:"priority"`
	TrackCount    int     `json:"track_count"`
	Speed         float64 `json:"speed"`
	Loop          bool    `json:"loop"`
}

type snapshotResponse struct {
	Tracks          []trackState    `json:"tracks"`
	Playbacks       []playbackState `json:"playbacks"`
	DeviceAvailable bool            `json:"device_available"`
	LastError       string          `json:"last_error"`
	LastCheckAt     time.Time       `json:"last_check_at"`
}

func (s *Server) handleSnapshot(c echo.Context) error {
	orch := s.eng.Orchestrator()
	mirSnap := s.eng.Mirror().Snapshot()

	tracks := make([]trackState, 0, len(mirSnap.Tracks))
	for idx, e := range mirSnap.Tracks {
		tracks = append(tracks, trackState{
			HolophonixIndex: idx,
			Name:            e.Name,
			X:               e.Position.X,
			Y:               e.Position.Y,
			Z:               e.Position.Z,
			Failed:          mirSnap.FailedIndices[idx],
		})
	}

	playbacks := make([]playbackState, 0)
	for _, p := range orch.Snapshot() {
		playbacks = append(playbacks, playbackState{
			ID:            p.ID.String(),
			AnimationName: p.AnimationName,
			State:         p.State.String(),
			Priority:      int(p.Priority),
			TrackCount:    p.TrackCount,
			Speed:         p.Speed,
			Loop:          p.Loop,
		})
	}

	return c.JSON(http.StatusOK, snapshotResponse{
		Tracks:          tracks,
		Playbacks:       playbacks,
		DeviceAvailable: mirSnap.Available,
		LastError:       mirSnap.LastError,
		LastCheckAt:     mirSnap.LastCheckAt,
	})
}
