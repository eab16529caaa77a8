package engine

import (
	"fmt"

	"holophonix-engine/internal/animation"
	"holophonix-engine/internal/orchestrator"
)

// engineAnimControl adapts the engine's command channel to mirror.AnimControl
// so inbound `/anim/*` OSC messages can drive playbacks by animation name,
// without the mirror's recv goroutine touching orchestrator state directly.
type engineAnimControl struct {
	e *Engine
}

func (e *Engine) animControl() *engineAnimControl { return &engineAnimControl{e: e} }

func (a *engineAnimControl) resolve(name string) (orchestrator.PlaybackID, bool) {
	return a.e.orch.ByName(name)
}

// Play admits a new playback of the named catalog animation over
// trackIndices. A nil/empty trackIndices plays over every known track.
func (a *engineAnimControl) Play(name string, trackIndices []int) error {
	anim, ok := a.e.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("engine: no such animation %q", name)
	}

	var trackIDs []animation.ID
	if len(trackIndices) == 0 {
		for _, tr := range a.e.tracks.All() {
			trackIDs = append(trackIDs, tr.ID)
		}
	} else {
		for _, idx := range trackIndices {
			if tr, ok := a.e.tracks.ByIndex(idx); ok {
				trackIDs = append(trackIDs, tr.ID)
			}
		}
	}
	if len(trackIDs) == 0 {
		return fmt.Errorf("engine: no resolvable tracks for animation %q", name)
	}

	reply := make(chan PlayResult, 1)
	a.e.commands <- PlayCommand{
		Request: orchestrator.PlaybackRequest{
			Animation: anim,
			TrackIDs:  trackIDs,
			Priority:  orchestrator.Normal,
			Speed:     1,
			Source:    orchestrator.SourceOSC,
		},
		Reply: reply,
	}
	res := <-reply
	return res.Err
}

func (a *engineAnimControl) Stop(name string) error {
	id, ok := a.resolve(name)
	if !ok {
		return fmt.Errorf("engine: no active playback named %q", name)
	}
	reply := make(chan error, 1)
	a.e.commands <- StopCommand{ID: id, Reply: reply}
	return <-reply
}

func (a *engineAnimControl) Pause(name string) error {
	id, ok := a.resolve(name)
	if !ok {
		return fmt.Errorf("engine: no active playback named %q", name)
	}
	reply := make(chan error, 1)
	a.e.commands <- PauseCommand{ID: id, Reply: reply}
	return <-reply
}

func (a *engineAnimControl) Resume(name string) error {
	id, ok := a.resolve(name)
	if !ok {
		return fmt.Errorf("engine: no active playback named %q", name)
	}
	reply := make(chan error, 1)
	a.e.commands <- ResumeCommand{ID: id, Reply: reply}
	return <-reply
}

func (a *engineAnimControl) Seek(name string, tSec float64) error {
	id, ok := a.resolve(name)
	if !ok {
		return fmt.Errorf("engine: no active playback named %q", name)
	}
	reply := make(chan error, 1)
	a.e.commands <- SeekCommand{ID: id, Seconds: tSec, Reply: reply}
	return <-reply
}

func (a *engineAnimControl) GotoStart(name string) error {
	return a.Seek(name, 0)
}

func (a *engineAnimControl) SetSpeed(name string, speed float64) error {
	id, ok := a.resolve(name)
	if !ok {
		return fmt.Errorf("engine: no active playback named %q", name)
	}
	reply := make(chan error, 1)
	a.e.commands <- SetSpeedCommand{ID: id, Speed: speed, Reply: reply}
	return <-reply
}

func (a *engineAnimControl) SetLoop(name string, loop bool) error {
	id, ok := a.resolve(name)
	if !ok {
		return fmt.Errorf("engine: no active playback named %q", name)
	}
	reply := make(chan error, 1)
	a.e.commands <- SetLoopCommand{ID: id, Loop: loop, Reply: reply}
	return <-reply
}

func (a *engineAnimControl) SetPingPong(name string, pingPong bool) error {
	id, ok := a.resolve(name)
	if !ok {
		return fmt.Errorf("engine: no active playback named %q", name)
	}
	reply := make(chan error, 1)
	a.e.commands <- SetPingPongCommand{ID: id, PingPong: pingPong, Reply: reply}
	return <-reply
}
