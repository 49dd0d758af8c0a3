package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/glider-run/internal/config"
)

type recordingRenderer struct {
	frames int
	events []EntityEvent
}

func (r *recordingRenderer) Frame(Snapshot) { r.frames++ }

func (r *recordingRenderer) Entity(e EntityEvent) {
	r.events = append(r.events, e)
}

func (r *recordingRenderer) count(kind EntityKind, action EntityAction) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind && e.Action == action {
			n++
		}
	}
	return n
}

type recordingShell struct {
	last     Status
	finished []int
}

func (s *recordingShell) Status(st Status)    { s.last = st }
func (s *recordingShell) Finished(score int) { s.finished = append(s.finished, score) }

type stubAudio struct {
	started, ended int
	err            error
}

func (a *stubAudio) SessionStarted() error { a.started++; return a.err }
func (a *stubAudio) SessionEnded() error   { a.ended++; return a.err }

type stubSharer struct {
	scores []int
	err    error
}

func (s *stubSharer) Share(score int) error {
	s.scores = append(s.scores, score)
	return s.err
}

func newTestSession(c Collaborators) *Session {
	return NewSession(Options{
		Config:        config.DefaultGliderConfig(),
		TickRate:      60,
		Seed:          42,
		Collaborators: c,
	})
}

func step(s *Session) {
	s.Scheduler().Advance(s.TickInterval())
}

// runUntilOver ticks until game over and returns the score one tick before.
func runUntilOver(t *testing.T, s *Session, maxTicks int) int {
	t.Helper()
	prev := s.Score()
	for i := 0; i < maxTicks; i++ {
		prev = s.Score()
		step(s)
		if s.Phase() == Over {
			return prev
		}
	}
	t.Fatalf("session still %v after %d ticks", s.Phase(), maxTicks)
	return prev
}

func TestSessionStateMachine(t *testing.T) {
	s := newTestSession(Collaborators{})

	if s.Phase() != NotStarted {
		t.Fatalf("initial phase = %v, expected not-started", s.Phase())
	}

	s.Restart()
	if s.Phase() != NotStarted {
		t.Errorf("Restart before Start moved to %v", s.Phase())
	}

	step(s)
	if s.Ticks() != 0 {
		t.Errorf("ticks before Start = %d, expected 0", s.Ticks())
	}

	s.Start()
	if s.Phase() != Running {
		t.Fatalf("phase after Start = %v, expected running", s.Phase())
	}
	step(s)

	s.Start()
	s.Restart()
	if s.Ticks() != 1 {
		t.Errorf("Start/Restart while running reset the run, ticks = %d", s.Ticks())
	}

	runUntilOver(t, s, 60*60)

	s.Start()
	if s.Phase() != Over {
		t.Errorf("Start after game over moved to %v", s.Phase())
	}

	s.Restart()
	if s.Phase() != Running {
		t.Errorf("phase after Restart = %v, expected running", s.Phase())
	}
}

func TestIdlePlayerHitsFirstObstacle(t *testing.T) {
	r := &recordingRenderer{}
	shell := &recordingShell{}
	s := newTestSession(Collaborators{Renderer: r, Shell: shell})
	s.Start()

	before := runUntilOver(t, s, 60*20)

	if s.Score() != before {
		t.Errorf("score changed on the collision tick: %d -> %d", before, s.Score())
	}
	if r.count(KindObstacle, Spawned) != 1 {
		t.Errorf("obstacles spawned = %d, expected 1", r.count(KindObstacle, Spawned))
	}
	if len(shell.finished) != 1 || shell.finished[0] != s.Score() {
		t.Errorf("Finished calls = %v, expected [%d]", shell.finished, s.Score())
	}
	if !shell.last.Over || shell.last.Running {
		t.Errorf("last status = %+v, expected over", shell.last)
	}

	// The first obstacle appears at 6.5s and needs a few seconds to arrive.
	if s.Elapsed() < 9*time.Second || s.Elapsed() > 12*time.Second {
		t.Errorf("game over at %v, expected between 9s and 12s", s.Elapsed())
	}
}

func TestPickupIsCollectedOnce(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(Collaborators{Renderer: r})
	s.Start()

	pk, _ := s.PlacePickup(200, 50)
	step(s)

	if s.Score() != 1 {
		t.Errorf("score = %d, expected 1", s.Score())
	}
	if len(s.Pickups()) != 0 {
		t.Errorf("pickups left = %d, expected 0", len(s.Pickups()))
	}

	last := r.events[len(r.events)-1]
	if last.ID != pk.ID || last.Action != Collected || last.Kind != KindPickup {
		t.Errorf("last event = %+v, expected collect of %d", last, pk.ID)
	}

	step(s)
	if s.Score() != 1 {
		t.Errorf("score after another tick = %d, expected 1", s.Score())
	}
}

func TestUnreachedPickupScrollsAway(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(Collaborators{Renderer: r})
	s.Start()
	s.PlacePickup(60, 300)

	for i := 0; i < 60; i++ {
		step(s)
	}

	if s.Score() != 0 {
		t.Errorf("score = %d, expected 0", s.Score())
	}
	if r.count(KindPickup, Pruned) != 1 {
		t.Errorf("pickups pruned = %d, expected 1", r.count(KindPickup, Pruned))
	}
}

func TestInputIgnoredUnlessRunning(t *testing.T) {
	s := newTestSession(Collaborators{})

	s.Press()
	if s.Player().Mode != Grounded {
		t.Errorf("Press before Start changed mode to %v", s.Player().Mode)
	}

	s.Start()
	s.Press()
	step(s)
	if s.Player().Mode != Jumping || !s.Player().Airborne() {
		t.Errorf("player = %+v after Press, expected airborne", s.Player())
	}

	s.Press()
	if s.Player().Mode != Gliding {
		t.Errorf("mode = %v after second Press, expected gliding", s.Player().Mode)
	}
	s.Release()
	if s.Player().Mode != Jumping {
		t.Errorf("mode = %v after Release, expected jumping", s.Player().Mode)
	}
}

func TestNoTimersAfterGameOver(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(Collaborators{Renderer: r})
	s.Start()
	if s.Scheduler().Pending() != 3 {
		t.Errorf("pending timers = %d, expected 3", s.Scheduler().Pending())
	}

	runUntilOver(t, s, 60*20)
	if s.Scheduler().Pending() != 0 {
		t.Errorf("pending timers after game over = %d, expected 0", s.Scheduler().Pending())
	}

	frames, events := r.frames, len(r.events)
	s.Scheduler().Advance(30 * time.Second)
	if r.frames != frames || len(r.events) != events {
		t.Error("renderer notified after game over")
	}

	s.Restart()
	if s.Scheduler().Pending() != 3 {
		t.Errorf("pending timers after Restart = %d, expected 3", s.Scheduler().Pending())
	}
}

func TestRestartResetsRun(t *testing.T) {
	s := newTestSession(Collaborators{})
	s.Start()
	s.PlacePickup(200, 50)
	runUntilOver(t, s, 60*20)
	if s.Score() == 0 {
		t.Fatal("expected a score before restarting")
	}

	s.Restart()
	if s.Score() != 0 || s.Elapsed() != 0 || s.Ticks() != 0 {
		t.Errorf("after Restart score=%d elapsed=%v ticks=%d, expected zeros", s.Score(), s.Elapsed(), s.Ticks())
	}
	if len(s.Obstacles()) != 0 || len(s.Pickups()) != 0 {
		t.Errorf("entities left after Restart: %d obstacles, %d pickups", len(s.Obstacles()), len(s.Pickups()))
	}
	if s.ScrollSpeed() != 2.0 {
		t.Errorf("speed after Restart = %v, expected 2.0", s.ScrollSpeed())
	}
}

func TestSpawnCadenceRetunesWithoutDoubling(t *testing.T) {
	cfg := config.DefaultGliderConfig()
	// Obstacles too short to hit, so the run lasts.
	cfg.Obstacles.MinHeight = 10
	cfg.Obstacles.MaxHeight = 20

	r := &recordingRenderer{}
	s := NewSession(Options{Config: cfg, Seed: 7, Collaborators: Collaborators{Renderer: r}})
	s.Start()

	for i := 0; i < 60*100; i++ {
		step(s)
	}
	if s.Phase() != Running {
		t.Fatalf("phase = %v, expected running", s.Phase())
	}

	var spawns []time.Duration
	for _, e := range r.events {
		if e.Kind == KindObstacle && e.Action == Spawned {
			spawns = append(spawns, e.At)
		}
	}

	if len(spawns) < 2 {
		t.Fatalf("only %d obstacles spawned", len(spawns))
	}
	for i := 1; i < len(spawns); i++ {
		gap := spawns[i] - spawns[i-1]
		if spawns[i] <= 45*time.Second && gap != 6500*time.Millisecond {
			t.Errorf("gap before 45s = %v, expected 6.5s", gap)
		}
		if gap < 4500*time.Millisecond || gap > 6500*time.Millisecond+s.TickInterval() {
			t.Errorf("gap %d = %v, outside [4.5s, 6.5s]", i, gap)
		}
	}
	if s.SpawnPeriod() != 4500*time.Millisecond {
		t.Errorf("spawn period at 100s = %v, expected 4.5s", s.SpawnPeriod())
	}
	if s.ScrollSpeed() != 4.5 {
		t.Errorf("speed at 100s = %v, expected 4.5", s.ScrollSpeed())
	}
}

func TestSessionDeterminism(t *testing.T) {
	run := func() (int, int, []Obstacle) {
		s := newTestSession(Collaborators{})
		s.Start()
		for i := 0; i < 60*30 && s.Phase() == Running; i++ {
			switch {
			case i%90 == 0:
				s.Press()
			case i%90 == 20:
				s.Press()
			case i%90 == 60:
				s.Release()
			}
			step(s)
		}
		return s.Score(), s.Ticks(), append([]Obstacle(nil), s.Obstacles()...)
	}

	score1, ticks1, obs1 := run()
	score2, ticks2, obs2 := run()

	if score1 != score2 || ticks1 != ticks2 {
		t.Errorf("runs differ: score %d/%d ticks %d/%d", score1, score2, ticks1, ticks2)
	}
	if len(obs1) != len(obs2) {
		t.Fatalf("obstacle counts differ: %d/%d", len(obs1), len(obs2))
	}
	for i := range obs1 {
		if obs1[i] != obs2[i] {
			t.Errorf("obstacle %d differs: %+v / %+v", i, obs1[i], obs2[i])
		}
	}
}

func TestShare(t *testing.T) {
	sharer := &stubSharer{}
	s := newTestSession(Collaborators{Sharer: sharer})

	if err := s.Share(); !errors.Is(err, ErrNotOver) {
		t.Errorf("Share before start = %v, expected ErrNotOver", err)
	}
	s.Start()
	if err := s.Share(); !errors.Is(err, ErrNotOver) {
		t.Errorf("Share while running = %v, expected ErrNotOver", err)
	}

	s.PlacePickup(200, 50)
	runUntilOver(t, s, 60*20)
	if err := s.Share(); err != nil {
		t.Fatalf("Share after game over: %v", err)
	}
	if len(sharer.scores) != 1 || sharer.scores[0] != s.Score() {
		t.Errorf("shared %v, expected [%d]", sharer.scores, s.Score())
	}

	boom := errors.New("boom")
	sharer.err = boom
	if err := s.Share(); !errors.Is(err, boom) {
		t.Errorf("Share error = %v, expected wrapped boom", err)
	}
}

func TestAudioFailureDoesNotStopSession(t *testing.T) {
	audio := &stubAudio{err: errors.New("no device")}
	s := newTestSession(Collaborators{Audio: audio})

	s.Start()
	if s.Phase() != Running {
		t.Fatalf("phase = %v, expected running", s.Phase())
	}
	runUntilOver(t, s, 60*20)

	if audio.started != 1 || audio.ended != 1 {
		t.Errorf("audio started=%d ended=%d, expected 1 and 1", audio.started, audio.ended)
	}
}

func TestSetConfigAppliesOnNextRun(t *testing.T) {
	s := newTestSession(Collaborators{})
	s.Start()

	cfg := config.DefaultGliderConfig()
	cfg.Difficulty.BaseSpeed = 3
	s.SetConfig(cfg)
	if s.ScrollSpeed() != 2.0 {
		t.Errorf("speed changed mid-run to %v", s.ScrollSpeed())
	}

	runUntilOver(t, s, 60*20)
	s.Restart()
	if s.ScrollSpeed() != 3 {
		t.Errorf("speed after Restart = %v, expected 3", s.ScrollSpeed())
	}
}

func TestObstacleSpawnedAtStartEndsIdleRun(t *testing.T) {
	s := newTestSession(Collaborators{})
	s.Start()
	s.SpawnObstacle()
	if len(s.Obstacles()) != 1 || s.Obstacles()[0].X != 800 {
		t.Fatalf("obstacles = %+v, expected one at the right edge", s.Obstacles())
	}

	before := runUntilOver(t, s, 60*10)
	if s.Score() != before {
		t.Errorf("score changed on the collision tick: %d -> %d", before, s.Score())
	}
	// 625 units at a little over 2 per tick.
	if s.Ticks() < 280 || s.Ticks() > 315 {
		t.Errorf("collision after %d ticks, expected about 300", s.Ticks())
	}
}

func TestSpawnedPickupCollectedMidJump(t *testing.T) {
	cfg := config.DefaultGliderConfig()
	cfg.Pickups.MinOffset = 120 // above the grounded collect box
	cfg.Pickups.SpawnEvery = time.Hour
	cfg.Obstacles.SpawnEvery = time.Hour
	r := &recordingRenderer{}
	s := NewSession(Options{Config: cfg, TickRate: 60, Seed: 7, Collaborators: Collaborators{Renderer: r}})
	s.Start()

	s.SpawnPickup()
	if len(s.Pickups()) != 1 {
		t.Fatalf("pickups = %d, expected 1", len(s.Pickups()))
	}
	pk := s.Pickups()[0]
	if pk.Y < 120 || pk.Y >= 220 {
		t.Fatalf("pickup y = %v, expected within [120, 220)", pk.Y)
	}

	for s.Pickups()[0].X >= 230 {
		step(s)
	}
	if s.Score() != 0 {
		t.Fatalf("score = %d before the jump, expected 0", s.Score())
	}

	s.Press()
	for i := 0; i < 80 && s.Score() == 0; i++ {
		step(s)
	}
	if s.Score() != 1 {
		t.Fatalf("score = %d after jumping through the pickup, expected 1", s.Score())
	}
	if !s.Player().Airborne() {
		t.Error("pickup collected while grounded, expected mid-jump")
	}
	if len(s.Pickups()) != 0 {
		t.Errorf("pickups left = %d, expected 0", len(s.Pickups()))
	}
	if r.count(KindPickup, Collected) != 1 {
		t.Errorf("collect events = %d, expected 1", r.count(KindPickup, Collected))
	}

	for i := 0; i < 120; i++ {
		step(s)
	}
	if s.Score() != 1 {
		t.Errorf("score = %d later on, expected 1", s.Score())
	}
}

func TestGameOverStateSurvivesSetConfig(t *testing.T) {
	s := newTestSession(Collaborators{})
	s.Start()
	s.SpawnObstacle()
	runUntilOver(t, s, 60*10)

	before := s.Snapshot()
	if len(before.Obstacles) == 0 {
		t.Fatal("expected the fatal obstacle in the final scene")
	}

	cfg := config.DefaultGliderConfig()
	cfg.Difficulty.BaseSpeed = 3
	s.SetConfig(cfg)

	after := s.Snapshot()
	if after.Phase != Over {
		t.Errorf("phase = %v, expected over", after.Phase)
	}
	if len(after.Obstacles) != len(before.Obstacles) || after.Obstacles[0] != before.Obstacles[0] {
		t.Errorf("obstacles = %+v, expected %+v", after.Obstacles, before.Obstacles)
	}
	if after.Speed != before.Speed || s.ScrollSpeed() != before.Speed {
		t.Errorf("speed = %v, expected %v", s.ScrollSpeed(), before.Speed)
	}
	if s.Config().Difficulty.BaseSpeed != 2 {
		t.Errorf("base speed = %v while over, expected 2", s.Config().Difficulty.BaseSpeed)
	}

	s.Restart()
	if s.ScrollSpeed() != 3 {
		t.Errorf("speed after Restart = %v, expected 3", s.ScrollSpeed())
	}
}

func TestSetConfigBeforeStartAppliesAtOnce(t *testing.T) {
	s := newTestSession(Collaborators{})
	cfg := config.DefaultGliderConfig()
	cfg.World.Width = 640
	s.SetConfig(cfg)
	if s.Config().World.Width != 640 {
		t.Errorf("world width = %v, expected 640", s.Config().World.Width)
	}
}

func TestPlacePickupIgnoredUnlessRunning(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(Collaborators{Renderer: r})

	if _, ok := s.PlacePickup(200, 50); ok {
		t.Error("PlacePickup before Start = true, expected false")
	}

	s.Start()
	s.SpawnObstacle()
	runUntilOver(t, s, 60*10)

	pickups, events := len(s.Pickups()), len(r.events)
	if _, ok := s.PlacePickup(200, 50); ok {
		t.Error("PlacePickup after game over = true, expected false")
	}
	if len(s.Pickups()) != pickups || len(r.events) != events {
		t.Errorf("pickups %d -> %d, events %d -> %d, expected no change",
			pickups, len(s.Pickups()), events, len(r.events))
	}
}

func TestPresetRunStartsAtBaseSpeed(t *testing.T) {
	for _, preset := range []config.DifficultyPreset{config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed} {
		t.Run(string(preset), func(t *testing.T) {
			cfg := config.DefaultGliderConfig()
			config.ApplyPreset(&cfg, preset)
			s := NewSession(Options{Config: cfg, TickRate: 60, Seed: 1})
			s.Start()

			if s.ScrollSpeed() != cfg.Difficulty.BaseSpeed {
				t.Errorf("speed on start = %v, expected base_speed %v", s.ScrollSpeed(), cfg.Difficulty.BaseSpeed)
			}
			if s.SpawnPeriod() != cfg.Obstacles.SpawnEvery {
				t.Errorf("spawn period on start = %v, expected %v", s.SpawnPeriod(), cfg.Obstacles.SpawnEvery)
			}
		})
	}
}
