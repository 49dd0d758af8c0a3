package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/glider-run/internal/core"
)

// KeyMap defines the key bindings for a running game.
type KeyMap struct {
	Jump    key.Binding
	Release key.Binding
	Start   key.Binding
	Pause   key.Binding
	Restart key.Binding
	Share   key.Binding
	Shot    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.Release, k.Pause, k.Restart, k.Share, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Jump, k.Release, k.Start},
		{k.Pause, k.Restart, k.Share},
		{k.Shot, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings. S doubles as glide release
// while running and as share on the game over screen.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space", "jump/glide"),
		),
		Release: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("s", "stop gliding"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "share"),
		),
		Shot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions. The result
// depends on the game state because S means share once the run is over.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a key mapper with the given bindings.
func NewKeyMapper(keys KeyMap) *KeyMapper {
	return &KeyMapper{keys: keys}
}

// MapKey returns the action for a key, or ActionNone.
func (km *KeyMapper) MapKey(msg tea.KeyMsg, state core.GameState) core.Action {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return core.ActionQuit
	case state.GameOver && key.Matches(msg, km.keys.Share):
		return core.ActionShare
	case key.Matches(msg, km.keys.Jump):
		return core.ActionJump
	case key.Matches(msg, km.keys.Release):
		return core.ActionRelease
	case key.Matches(msg, km.keys.Start):
		if state.GameOver {
			return core.ActionRestart
		}
		return core.ActionConfirm
	case key.Matches(msg, km.keys.Pause):
		return core.ActionPause
	case key.Matches(msg, km.keys.Restart):
		if state.GameOver {
			return core.ActionRestart
		}
	}
	return core.ActionNone
}

// holdTracker turns a stream of repeated key presses into press and release
// actions. Terminals report no key-up, so a hold is considered over once the
// key has not repeated for a number of ticks.
type holdTracker struct {
	releaseAfter int
	held         bool
	idle         int
}

func newHoldTracker(releaseAfter int) holdTracker {
	if releaseAfter < 1 {
		releaseAfter = 1
	}
	return holdTracker{releaseAfter: releaseAfter}
}

// Press records a press or key repeat.
func (h *holdTracker) Press() {
	h.held = true
	h.idle = 0
}

// Release forgets the hold after an explicit release.
func (h *holdTracker) Release() {
	h.held = false
	h.idle = 0
}

// Tick advances the idle counter and reports whether a release should be
// synthesized.
func (h *holdTracker) Tick() bool {
	if !h.held {
		return false
	}
	h.idle++
	if h.idle < h.releaseAfter {
		return false
	}
	h.Release()
	return true
}
