package glider

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/games/glider/sim"
)

// HeadlessOptions configure a run without a terminal.
type HeadlessOptions struct {
	Seed        int64
	TickRate    int
	MaxDuration time.Duration // Stop a surviving run after this much simulated time
	Autopilot   *Autopilot    // Nil leaves the player idle
	Logger      *log.Logger
}

// RunResult summarizes one headless run.
type RunResult struct {
	Seed             int64
	Score            int
	Elapsed          time.Duration
	Ticks            int
	Over             bool // False when the run survived MaxDuration
	FinalSpeed       float64
	ObstaclesSpawned int
	PickupsSpawned   int
}

// counter is a sim.Renderer that only counts spawns.
type counter struct {
	obstacles, pickups int
}

func (c *counter) Frame(sim.Snapshot) {}

func (c *counter) Entity(e sim.EntityEvent) {
	if e.Action != sim.Spawned {
		return
	}
	switch e.Kind {
	case sim.KindObstacle:
		c.obstacles++
	case sim.KindPickup:
		c.pickups++
	}
}

// RunHeadless plays one session as fast as possible.
func RunHeadless(cfg config.GliderConfig, opts HeadlessOptions) RunResult {
	c := &counter{}
	s := sim.NewSession(sim.Options{
		Config:        cfg,
		TickRate:      opts.TickRate,
		Seed:          opts.Seed,
		Logger:        opts.Logger,
		Collaborators: sim.Collaborators{Renderer: c},
	})

	s.Start()
	for s.Phase() == sim.Running && (opts.MaxDuration <= 0 || s.Elapsed() < opts.MaxDuration) {
		if opts.Autopilot != nil {
			opts.Autopilot.Act(s)
		}
		s.Scheduler().Advance(s.TickInterval())
	}

	return RunResult{
		Seed:             opts.Seed,
		Score:            s.Score(),
		Elapsed:          s.Elapsed(),
		Ticks:            s.Ticks(),
		Over:             s.Phase() == sim.Over,
		FinalSpeed:       s.ScrollSpeed(),
		ObstaclesSpawned: c.obstacles,
		PickupsSpawned:   c.pickups,
	}
}
