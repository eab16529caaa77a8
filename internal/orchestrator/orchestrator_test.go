package orchestrator

import (
	"testing"
	"time"

	"holophonix-engine/internal/animation"
	"holophonix-engine/internal/clock"
	"holophonix-engine/internal/models"
	"holophonix-engine/internal/track"
	"holophonix-engine/internal/vector"
)

func newTestTracks(n int) *track.Set {
	trs := make([]*track.Track, n)
	for i := 0; i < n; i++ {
		trs[i] = &track.Track{
			ID:              track.NewID(),
			HolophonixIndex: i + 1,
			InitialPosition: vector.Position{X: float64(i)},
		}
	}
	return track.NewSet(trs)
}

func linearAnim(duration float64) *animation.Animation {
	return &animation.Animation{
		Duration:   duration,
		Model:      models.Linear,
		Parameters: models.LinearParams{Start: vector.Position{}, End: vector.Position{X: 10}},
	}
}

func TestPlayRejectsEmptyTracks(t *testing.T) {
	o := New(DefaultConfig(), clock.NewFake(time.Unix(0, 0)), newTestTracks(1))
	_, err := o.Play(PlaybackRequest{Animation: linearAnim(5), Speed: 1})
	if err != ErrEmptyTracks {
		t.Errorf("expected ErrEmptyTracks, got %v", err)
	}
}

func TestPlayStartsAndTicks(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	o := New(DefaultConfig(), clk, tracks)

	id, err := o.Play(PlaybackRequest{
		Animation: linearAnim(4),
		TrackIDs:  []track.ID{all[0].ID},
		Speed:     1,
	})
	if err != nil {
		t.Fatalf("play: %v", err)
	}

	clk.Advance(2 * time.Second)
	updates := o.Tick(clk.Now())
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	if got := updates[0].Position.X; got < 4.9 || got > 5.1 {
		t.Errorf("expected x~=5 at t=2/4, got %v", got)
	}
	if st, _ := o.Playback(id); st != Playing {
		t.Errorf("expected Playing, got %v", st)
	}
}

func TestStopExistingPreempts(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	cfg := DefaultConfig()
	cfg.ConflictStrategy = StopExisting
	o := New(cfg, clk, tracks)

	id1, _ := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1})
	id2, err := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1})
	if err != nil {
		t.Fatalf("second play: %v", err)
	}
	if st, _ := o.Playback(id1); st != Stopped {
		t.Errorf("expected id1 stopped (no fadeOut configured), got %v", st)
	}
	if st, _ := o.Playback(id2); st != Playing {
		t.Errorf("expected id2 playing, got %v", st)
	}
}

func TestRejectNewFailsOnConflict(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	cfg := DefaultConfig()
	cfg.ConflictStrategy = RejectNew
	o := New(cfg, clk, tracks)

	_, _ = o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1})
	_, err := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1})
	if err != ErrRejectedByPolicy {
		t.Errorf("expected ErrRejectedByPolicy, got %v", err)
	}
}

func TestPriorityBasedPreemptsOnlyHigher(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	cfg := DefaultConfig()
	cfg.ConflictStrategy = PriorityBased
	o := New(cfg, clk, tracks)

	low, _ := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Priority: Normal, Speed: 1})
	_, err := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Priority: Low, Speed: 1})
	if err != ErrRejectedByPolicy {
		t.Errorf("lower priority should be rejected, got %v", err)
	}
	high, err := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Priority: Emergency, Speed: 1})
	if err != nil {
		t.Fatalf("higher priority should win: %v", err)
	}
	if st, _ := o.Playback(low); st != Stopped {
		t.Errorf("expected low-priority playback stopped, got %v", st)
	}
	if st, _ := o.Playback(high); st != Playing {
		t.Errorf("expected high-priority playback playing, got %v", st)
	}
}

func TestSeekRebasesLocalTime(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	o := New(DefaultConfig(), clk, tracks)

	id, _ := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1})
	if err := o.Seek(id, 2); err != nil {
		t.Fatalf("seek: %v", err)
	}
	updates := o.Tick(clk.Now())
	if got := updates[0].Position.X; got < 4.9 || got > 5.1 {
		t.Errorf("expected x~=5 right after seeking to t=2, got %v", got)
	}
}

func TestPauseFreezesTime(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	o := New(DefaultConfig(), clk, tracks)

	id, _ := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1})
	clk.Advance(time.Second)
	o.Tick(clk.Now())
	_ = o.Pause(id)
	before := o.Tick(clk.Now())[0].Position

	clk.Advance(2 * time.Second)
	after := o.Tick(clk.Now())[0].Position
	if before != after {
		t.Errorf("paused playback should not advance: before=%+v after=%+v", before, after)
	}
}

func TestStopWithoutFadeOutIsImmediate(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	o := New(DefaultConfig(), clk, tracks)

	id, _ := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1})
	if err := o.Stop(id); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if st, _ := o.Playback(id); st != Stopped {
		t.Errorf("expected immediate Stopped with no fadeOut configured, got %v", st)
	}
}

func TestStopWithFadeOutInterpolatesToInitial(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	o := New(DefaultConfig(), clk, tracks)

	anim := linearAnim(4)
	anim.FadeOut = &animation.FadeCfg{Duration: 1, Easing: animation.EaseLinear}
	id, _ := o.Play(PlaybackRequest{Animation: anim, TrackIDs: []track.ID{all[0].ID}, Speed: 1})

	clk.Advance(2 * time.Second)
	o.Tick(clk.Now())
	if err := o.Stop(id); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if st, _ := o.Playback(id); st != Stopping {
		t.Errorf("expected Stopping during fade-out, got %v", st)
	}

	clk.Advance(500 * time.Millisecond)
	updates := o.Tick(clk.Now())
	mid := updates[0].Position.X

	clk.Advance(600 * time.Millisecond)
	updates = o.Tick(clk.Now())
	final := updates[0].Position.X

	if final != all[0].InitialPosition.X {
		t.Errorf("expected final fade-out position to equal initial position %v, got %v", all[0].InitialPosition.X, final)
	}
	if st, _ := o.Playback(id); st != Stopped {
		t.Errorf("expected Stopped after fade-out completes, got %v", st)
	}
	_ = mid
}

func TestNaturalCompletionWithoutFadeOutStopsCleanly(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	o := New(DefaultConfig(), clk, tracks)

	id, _ := o.Play(PlaybackRequest{Animation: linearAnim(2), TrackIDs: []track.ID{all[0].ID}, Speed: 1})

	clk.Advance(3 * time.Second) // past the animation's 2s duration, no Stop() call
	updates := o.Tick(clk.Now())
	if len(updates) != 1 {
		t.Fatalf("expected 1 update at natural completion, got %d", len(updates))
	}
	if got := updates[0].Position.X; got < 9.9 || got > 10.1 {
		t.Errorf("expected final position X~=10 on natural completion, got %v (beginStop not called: fadeOutOrigin/fadeOutInitial zero-valued)", got)
	}
	if st, _ := o.Playback(id); st != Stopped {
		t.Errorf("expected Stopped immediately after natural completion with no fadeOut, got %v", st)
	}

	updates = o.Tick(clk.Now().Add(time.Millisecond))
	if len(updates) != 0 {
		t.Errorf("expected no further updates once terminal, got %+v", updates)
	}
}

func TestMaxConcurrentExceeded(t *testing.T) {
	tracks := newTestTracks(3)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	cfg := DefaultConfig()
	cfg.MaxConcurrentPlaybacks = 1
	o := New(cfg, clk, tracks)

	_, err := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1})
	if err != nil {
		t.Fatalf("first play: %v", err)
	}
	_, err = o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[1].ID}, Speed: 1})
	if err != ErrMaxConcurrentExceeded {
		t.Errorf("expected ErrMaxConcurrentExceeded, got %v", err)
	}
}

func TestDelayedPlayStartsLater(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	o := New(DefaultConfig(), clk, tracks)

	id, _ := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1, DelaySec: 1})
	if st, _ := o.Playback(id); st != Scheduled {
		t.Errorf("expected Scheduled before delay elapses, got %v", st)
	}
	updates := o.Tick(clk.Now())
	if len(updates) != 0 {
		t.Errorf("scheduled playback should produce no updates yet, got %d", len(updates))
	}

	clk.Advance(1100 * time.Millisecond)
	o.Tick(clk.Now())
	if st, _ := o.Playback(id); st != Playing {
		t.Errorf("expected Playing after delay elapses, got %v", st)
	}
}

func TestSchedulePromotesAtExecuteAt(t *testing.T) {
	tracks := newTestTracks(1)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	o := New(DefaultConfig(), clk, tracks)

	req := PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1}
	sid := o.Schedule(req, clk.Now().Add(time.Second))
	o.Tick(clk.Now())
	if o.ActiveCount() != 0 {
		t.Errorf("expected no active playback before executeAt")
	}

	clk.Advance(1100 * time.Millisecond)
	o.Tick(clk.Now())
	if o.ActiveCount() != 1 {
		t.Errorf("expected one active playback after executeAt, got %d", o.ActiveCount())
	}
	if err := o.CancelSchedule(sid); err != ErrAlreadyExecuted {
		t.Errorf("expected ErrAlreadyExecuted for a consumed schedule, got %v", err)
	}
}

func TestStopAllStopsEverything(t *testing.T) {
	tracks := newTestTracks(2)
	all := tracks.All()
	clk := clock.NewFake(time.Unix(0, 0))
	o := New(DefaultConfig(), clk, tracks)

	id1, _ := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[0].ID}, Speed: 1})
	id2, _ := o.Play(PlaybackRequest{Animation: linearAnim(4), TrackIDs: []track.ID{all[1].ID}, Speed: 1})
	o.StopAll()
	if st, _ := o.Playback(id1); st != Stopped {
		t.Errorf("expected id1 stopped")
	}
	if st, _ := o.Playback(id2); st != Stopped {
		t.Errorf("expected id2 stopped")
	}
}
