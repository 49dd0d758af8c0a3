// Package glider adapts the Glider Run simulation to the arcade platform.
// The rules live in the sim subpackage; this package owns the clock, turns
// platform actions into session calls and draws the result into a screen.
package glider

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/glider-run/internal/clock"
	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/core"
	"github.com/vovakirdan/glider-run/internal/games/glider/sim"
	"github.com/vovakirdan/glider-run/internal/registry"
)

// ID is the registry key of the game.
const ID = "glider"

// Options configure games created through the registry.
type Options struct {
	ConfigPath string                  // Custom config file, searched before the defaults
	Preset     config.DifficultyPreset // Applied over the loaded config
	Config     *config.GliderConfig    // Used as is when set; ConfigPath is ignored
	Audio      sim.Audio
	Sharer     sim.Sharer
	Logger     *log.Logger
}

var (
	optsMu      sync.Mutex
	defaultOpts Options
)

// Configure sets the options used by New. The CLI calls it once before
// creating the game.
func Configure(opts Options) {
	optsMu.Lock()
	defer optsMu.Unlock()
	defaultOpts = opts
}

func configured() Options {
	optsMu.Lock()
	defer optsMu.Unlock()
	return defaultOpts
}

// Game drives one sim.Session from platform input frames.
type Game struct {
	opts     Options
	log      *log.Logger
	runtime  core.RuntimeConfig
	cfg      config.GliderConfig
	session  *sim.Session
	renderer *TerminalRenderer
	paused   bool
	status   sim.Status
	best     int // Best score since the program started
}

// New creates a game with the options set by Configure.
func New() *Game {
	return NewWithOptions(configured())
}

// NewWithOptions creates a game with explicit options.
func NewWithOptions(opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{opts: opts, log: logger}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Glider Run"
}

// Reset builds a fresh session waiting on the title screen.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.cfg = g.loadConfig()
	g.paused = false

	g.renderer = NewTerminalRenderer(g.cfg, clock.Interval(runtime.TickRate))
	g.session = sim.NewSession(sim.Options{
		Config:   g.cfg,
		TickRate: runtime.TickRate,
		Seed:     runtime.Seed,
		Logger:   g.log,
		Collaborators: sim.Collaborators{
			Renderer: g.renderer,
			Shell:    g,
			Audio:    g.opts.Audio,
			Sharer:   g.opts.Sharer,
		},
	})
	g.status = g.session.Status()
	g.renderer.SetBest(g.best)
	g.renderer.Frame(g.session.Snapshot())
}

// loadConfig resolves the tuning for a new session. A broken config file
// is logged and replaced by the defaults so the game still starts.
func (g *Game) loadConfig() config.GliderConfig {
	if g.opts.Config != nil {
		return *g.opts.Config
	}

	cfg, err := config.Load(g.opts.ConfigPath)
	if err != nil {
		g.log.Warn("using default config", "path", g.opts.ConfigPath, "err", err)
		cfg = config.DefaultGliderConfig()
	}
	config.ApplyPreset(&cfg, g.opts.Preset)
	return cfg
}

// Reload re-reads the config file and hands it to the session. A running or
// finished game keeps its tuning and its last scene until the next start.
func (g *Game) Reload() error {
	cfg, err := config.Load(g.opts.ConfigPath)
	if err != nil {
		return err
	}
	config.ApplyPreset(&cfg, g.opts.Preset)

	g.cfg = cfg
	g.session.SetConfig(cfg)
	if g.session.Phase() == sim.NotStarted {
		g.renderer.SetConfig(cfg)
	}
	g.log.Info("config reloaded", "path", g.opts.ConfigPath)
	return nil
}

// Step applies the frame's actions in arrival order and advances the clock
// by one tick unless the game is paused or not running.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	for _, a := range in.Actions {
		g.apply(a)
	}

	if g.session.Phase() == sim.Running && !g.paused {
		g.session.Scheduler().Advance(g.session.TickInterval())
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) apply(a core.Action) {
	switch g.session.Phase() {
	case sim.NotStarted:
		if a == core.ActionJump || a == core.ActionConfirm {
			g.session.Start()
			g.renderer.SetConfig(g.session.Config())
		}

	case sim.Running:
		switch a {
		case core.ActionPause:
			g.paused = !g.paused
		case core.ActionJump:
			if !g.paused {
				g.session.Press()
			}
		case core.ActionRelease:
			g.session.Release()
		}

	case sim.Over:
		switch a {
		case core.ActionRestart, core.ActionConfirm:
			g.paused = false
			g.session.Restart()
			g.renderer.SetConfig(g.session.Config())
		case core.ActionShare:
			if err := g.session.Share(); err != nil {
				g.renderer.SetMessage("Share failed")
				return
			}
			g.renderer.SetMessage("Opened share page")
		}
	}
}

// Render draws the current state.
func (g *Game) Render(dst *core.Screen) {
	g.renderer.Draw(dst, g.status, g.paused)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.status.Score,
		Running:  g.status.Running,
		GameOver: g.status.Over,
		Paused:   g.paused,
	}
}

// Status implements sim.Shell.
func (g *Game) Status(st sim.Status) {
	g.status = st
}

// Finished implements sim.Shell.
func (g *Game) Finished(score int) {
	if score > g.best {
		g.best = score
	}
	g.renderer.SetBest(g.best)
	g.log.Debug("run finished", "score", score, "best", g.best)
}

// Session exposes the underlying session.
func (g *Game) Session() *sim.Session {
	return g.session
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}
