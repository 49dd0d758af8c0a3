// Package registry maps game IDs to factories. Games register themselves
// from init(), so the CLI and the terminal platform can create them by name
// without importing their packages directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/glider-run/internal/core"
)

// Game is a simulation the terminal platform can drive. Implementations keep
// their rules free of any terminal or Bubble Tea dependency; the platform
// maps keys to actions, paces the ticks and paints the screen.
type Game interface {
	// ID returns the identifier used on the command line.
	ID() string

	// Title returns the display name.
	Title() string

	// Reset prepares a fresh game for the given screen and seed. The game
	// waits on its title screen until it is told to start.
	Reset(cfg core.RuntimeConfig)

	// Step applies the frame's actions in order, then advances one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into dst. Render must not change the
	// simulation.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// Reloader is implemented by games that can pick up new tuning while the
// program runs. The new tuning applies from the next run.
type Reloader interface {
	Reload() error
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a factory under id. It panics on a duplicate id, which can
// only happen through a programming error in some init().
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns every registered game sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}
