package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/core"
	"github.com/vovakirdan/glider-run/internal/registry"
)

// DefaultReleaseAfter is how long a held key may go without repeating
// before the hold counts as released. It has to outlast the terminal's
// initial key-repeat delay.
const DefaultReleaseAfter = 500 * time.Millisecond

// Options configure the terminal platform.
type Options struct {
	Runtime      core.RuntimeConfig
	ReleaseAfter time.Duration   // DefaultReleaseAfter when zero
	Watcher      *config.Watcher // Optional; changes are forwarded to games implementing registry.Reloader
	Logger       *log.Logger
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       KeyMap
	keyMapper  *KeyMapper
	help       help.Model
	hold       holdTracker
	watcher    *config.Watcher
	log        *log.Logger
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, opts Options) Model {
	cfg := opts.Runtime
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	releaseAfter := opts.ReleaseAfter
	if releaseAfter <= 0 {
		releaseAfter = DefaultReleaseAfter
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	keys := DefaultKeyMap()
	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       keys,
		keyMapper:  NewKeyMapper(keys),
		help:       help.New(),
		hold:       newHoldTracker(int(releaseAfter * time.Duration(cfg.TickRate) / time.Second)),
		watcher:    opts.Watcher,
		log:        logger,
	}

	// Reset here rather than in Init: Init has a value receiver, so state
	// captured there would be lost.
	game.Reset(m.gameConfig())
	m.gameState = game.State()
	return m
}

// gameHeight leaves the bottom row for the help line.
func gameHeight(h int) int {
	if h > 1 {
		return h - 1
	}
	return h
}

func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init starts the tick loop and the config watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.config.TickRate), watchCmd(m.watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case ConfigChangedMsg:
		m.reloadConfig(msg.Path)
		return m, watchCmd(m.watcher)

	case ConfigWatchErrMsg:
		m.log.Warn("config watch failed", "err", msg.Err)
		return m, watchCmd(m.watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action := m.keyMapper.MapKey(msg, m.gameState)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionJump:
		m.hold.Press()
	case core.ActionRelease:
		m.hold.Release()
	}
	m.inputFrame.Set(action)

	return m, nil
}

// handleResize resizes the screen buffer. The game keeps running; it draws
// into whatever size it is given.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick runs one simulation step with the input gathered since the
// previous tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.hold.Tick() {
		m.inputFrame.Set(core.ActionRelease)
	}

	result := m.game.Step(m.inputFrame)
	if result.State.GameOver && !m.gameState.GameOver {
		m.hold.Release()
	}
	m.gameState = result.State

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// reloadConfig forwards a config change to the game.
func (m Model) reloadConfig(path string) {
	r, ok := m.game.(registry.Reloader)
	if !ok {
		return
	}
	if err := r.Reload(); err != nil {
		m.log.Warn("config reload failed", "path", path, "err", err)
		return
	}
	m.log.Info("config change picked up", "path", path)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("screenshot failed", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("screenshot failed", "err", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// GameState returns the state after the last tick.
func (m Model) GameState() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program for the given game.
func Run(game registry.Game, opts Options) error {
	model := NewModel(game, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
