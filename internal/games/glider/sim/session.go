// Package sim is the Glider Run simulation core: player physics, entity
// pools, collision and collection, and the session state machine.
//
// It never touches the terminal. Everything it has to say goes out through
// the Collaborators interfaces, and time only moves when the host advances
// the clock.Scheduler the session was built with.
package sim

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/glider-run/internal/clock"
	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/core"
)

// ErrNotOver is returned by Share before the run has ended.
var ErrNotOver = errors.New("session is not over")

// Options configure a new Session.
type Options struct {
	Config    config.GliderConfig
	Scheduler *clock.Scheduler // A fresh one is created when nil
	TickRate  int              // Ticks per second, 60 when zero
	Seed      int64
	Logger    *log.Logger
	Collaborators
}

// Session owns one game: the player, both entity pools, the difficulty
// controller and the timers that drive them. It is not safe for concurrent
// use; every method must be called from the goroutine that advances the
// scheduler, between Advance calls or from within its callbacks.
type Session struct {
	cfg     config.GliderConfig
	pending *config.GliderConfig // applied at the next entry to Running

	sched     *clock.Scheduler
	tickEvery time.Duration
	rng       *rand.Rand
	log       *log.Logger
	collab    Collaborators

	physics    Physics
	hits       Hitboxes
	player     PlayerState
	obstacles  *ObstaclePool
	pickups    *PickupPool
	difficulty *config.DifficultyController

	phase   Phase
	score   int
	elapsed time.Duration
	ticks   int
	nextID  uint64

	tickTimer     *clock.Timer
	obstacleTimer *clock.Timer
	pickupTimer   *clock.Timer
}

// NewSession creates a session in the NotStarted phase.
func NewSession(opts Options) *Session {
	sched := opts.Scheduler
	if sched == nil {
		sched = clock.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		sched:     sched,
		tickEvery: clock.Interval(opts.TickRate),
		rng:       rand.New(rand.NewSource(opts.Seed)),
		log:       logger,
		collab:    opts.Collaborators.withDefaults(),
	}
	s.configure(opts.Config)
	return s
}

func (s *Session) configure(cfg config.GliderConfig) {
	s.cfg = cfg
	s.physics = NewPhysics(cfg.Physics)
	s.hits = NewHitboxes(cfg.Player, cfg.Obstacles)
	s.obstacles = NewObstaclePool(cfg.Obstacles, cfg.World.Width, s.rng)
	s.pickups = NewPickupPool(cfg.Pickups, cfg.Physics.MaxJumpHeight, cfg.World.Width, s.rng)
	s.difficulty = config.NewDifficultyController(cfg.Difficulty, cfg.Obstacles.SpawnEvery)
}

// SetConfig replaces the tuning. Only a session that has not started takes
// it at once; a running or finished one keeps its state and applies the new
// tuning from the next Start or Restart.
func (s *Session) SetConfig(cfg config.GliderConfig) {
	if s.phase != NotStarted {
		s.pending = &cfg
		return
	}
	s.pending = nil
	s.configure(cfg)
	s.publish()
}

// Start begins the first run. It does nothing unless the session has never
// been started.
func (s *Session) Start() {
	if s.phase != NotStarted {
		return
	}
	s.enterRunning()
}

// Restart begins a new run after game over.
func (s *Session) Restart() {
	if s.phase != Over {
		return
	}
	s.enterRunning()
}

func (s *Session) enterRunning() {
	s.stopTimers()
	if s.pending != nil {
		s.configure(*s.pending)
		s.pending = nil
	}

	s.score = 0
	s.elapsed = 0
	s.ticks = 0
	s.player = PlayerState{}
	s.obstacles.Clear()
	s.pickups.Clear()
	s.difficulty.Reset()
	s.phase = Running

	// Registration order is firing order at equal deadlines: the physics
	// tick always runs before a spawn due at the same instant.
	s.tickTimer = s.sched.Every(s.tickEvery, s.tick)
	s.obstacleTimer = s.sched.Every(s.difficulty.SpawnPeriod(), s.SpawnObstacle)
	s.pickupTimer = s.sched.Every(s.cfg.Pickups.SpawnEvery, s.SpawnPickup)

	s.log.Info("session started", "speed", s.difficulty.Speed(), "obstacle_period", s.difficulty.SpawnPeriod())
	if err := s.collab.Audio.SessionStarted(); err != nil {
		s.log.Warn("audio start failed", "err", err)
	}
	s.publish()
}

func (s *Session) end() {
	s.phase = Over
	s.stopTimers()

	s.log.Info("session over", "score", s.score, "elapsed", s.elapsed, "ticks", s.ticks)
	if err := s.collab.Audio.SessionEnded(); err != nil {
		s.log.Warn("audio stop failed", "err", err)
	}
	s.collab.Shell.Finished(s.score)
	s.publish()
}

func (s *Session) stopTimers() {
	for _, t := range []*clock.Timer{s.tickTimer, s.obstacleTimer, s.pickupTimer} {
		if t != nil {
			t.Stop()
		}
	}
	s.tickTimer, s.obstacleTimer, s.pickupTimer = nil, nil, nil
}

// tick is one fixed simulation step.
func (s *Session) tick() {
	if s.phase != Running {
		return
	}
	s.ticks++
	s.elapsed += s.tickEvery

	if s.difficulty.Update(s.elapsed) {
		s.obstacleTimer.Reset(s.difficulty.SpawnPeriod())
		s.log.Debug("obstacle cadence retuned", "period", s.obstacleTimer.Period(), "tier", s.difficulty.Tier())
	}
	speed := s.difficulty.Speed()

	s.physics.Step(&s.player)

	s.obstacles.Advance(speed)
	s.pickups.Advance(speed)
	s.obstacles.PruneOffscreen(func(o Obstacle) { s.emit(KindObstacle, Pruned, o.ID, o.Bounds()) })
	s.pickups.PruneOffscreen(func(pk Pickup) { s.emit(KindPickup, Pruned, pk.ID, pk.Bounds()) })

	if i, hit := s.hits.FirstCollision(s.player.Y, s.obstacles.Items()); hit {
		s.log.Debug("collision", "obstacle", s.obstacles.Items()[i].ID, "player_y", s.player.Y)
		s.end()
		return
	}

	s.pickups.RemoveIf(
		func(pk Pickup) bool { return s.hits.Collects(s.player.Y, pk) },
		func(pk Pickup) {
			s.score++
			s.emit(KindPickup, Collected, pk.ID, pk.Bounds())
		},
	)

	s.publish()
}

// SpawnObstacle adds an obstacle at the right edge. The obstacle timer calls
// it; it is exported so hosts and tests can place one deterministically.
func (s *Session) SpawnObstacle() {
	if s.phase != Running {
		return
	}
	s.nextID++
	o := s.obstacles.Spawn(s.nextID)
	s.emit(KindObstacle, Spawned, o.ID, o.Bounds())
}

// SpawnPickup adds an emerald at the right edge, within reach of the
// player's current height.
func (s *Session) SpawnPickup() {
	if s.phase != Running {
		return
	}
	s.nextID++
	pk := s.pickups.Spawn(s.nextID, s.player.Y)
	s.emit(KindPickup, Spawned, pk.ID, pk.Bounds())
}

// PlacePickup adds an emerald at an exact position. It reports false and
// places nothing unless the session is running.
func (s *Session) PlacePickup(x, y float64) (Pickup, bool) {
	if s.phase != Running {
		return Pickup{}, false
	}
	s.nextID++
	pk := s.pickups.Place(s.nextID, x, y)
	s.emit(KindPickup, Spawned, pk.ID, pk.Bounds())
	return pk, true
}

// Press handles a jump key press or touch start. Ignored unless running.
func (s *Session) Press() {
	if s.phase != Running {
		return
	}
	s.physics.Press(&s.player)
}

// Release handles a jump key release or touch end. Ignored unless running.
func (s *Session) Release() {
	if s.phase != Running {
		return
	}
	s.physics.StopGlide(&s.player)
}

// Share hands the final score to the share collaborator.
func (s *Session) Share() error {
	if s.phase != Over {
		return ErrNotOver
	}
	if err := s.collab.Sharer.Share(s.score); err != nil {
		s.log.Warn("share failed", "score", s.score, "err", err)
		return fmt.Errorf("share score: %w", err)
	}
	return nil
}

func (s *Session) emit(kind EntityKind, action EntityAction, id uint64, bounds core.Rect) {
	s.collab.Renderer.Entity(EntityEvent{Kind: kind, Action: action, ID: id, Bounds: bounds, At: s.sched.Now()})
}

func (s *Session) publish() {
	s.collab.Renderer.Frame(s.Snapshot())
	s.collab.Shell.Status(s.Status())
}

// Snapshot returns the renderer's view of the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:       s.phase,
		Score:       s.score,
		Elapsed:     s.elapsed,
		Speed:       s.difficulty.Speed(),
		SpawnPeriod: s.difficulty.SpawnPeriod(),
		Player:      s.player,
		PlayerBox:   s.hits.PlayerBounds(s.player.Y),
		Obstacles:   s.obstacles.Items(),
		Pickups:     s.pickups.Items(),
	}
}

// Status returns the UI shell's view of the current state.
func (s *Session) Status() Status {
	return Status{
		Phase:   s.phase,
		Score:   s.score,
		Running: s.phase == Running,
		Over:    s.phase == Over,
	}
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Score returns the emeralds collected in this run.
func (s *Session) Score() int { return s.score }

// Elapsed returns the simulated time since the run started.
func (s *Session) Elapsed() time.Duration { return s.elapsed }

// Ticks returns the number of ticks since the run started.
func (s *Session) Ticks() int { return s.ticks }

// ScrollSpeed returns the current per-tick scroll speed.
func (s *Session) ScrollSpeed() float64 { return s.difficulty.Speed() }

// SpawnPeriod returns the current obstacle spawn period.
func (s *Session) SpawnPeriod() time.Duration { return s.difficulty.SpawnPeriod() }

// Player returns the player's state.
func (s *Session) Player() PlayerState { return s.player }

// Obstacles returns the live obstacles.
func (s *Session) Obstacles() []Obstacle { return s.obstacles.Items() }

// Pickups returns the live pickups.
func (s *Session) Pickups() []Pickup { return s.pickups.Items() }

// Config returns the tuning of the current run.
func (s *Session) Config() config.GliderConfig { return s.cfg }

// Hitboxes returns the collision profiles of the current run.
func (s *Session) Hitboxes() Hitboxes { return s.hits }

// Scheduler returns the clock driving the session.
func (s *Session) Scheduler() *clock.Scheduler { return s.sched }

// TickInterval returns the simulated duration of one tick.
func (s *Session) TickInterval() time.Duration { return s.tickEvery }
