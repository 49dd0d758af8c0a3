// Package tui runs a registered game in the terminal with Bubble Tea. It
// maps keys to actions, paces simulation ticks and paints the game's screen
// buffer with lipgloss colors.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/glider-run/internal/config"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// ConfigChangedMsg reports that the watched config file was written.
type ConfigChangedMsg struct {
	Path string
}

// ConfigWatchErrMsg reports a failure of the config watcher.
type ConfigWatchErrMsg struct {
	Err error
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchCmd waits for the next config change. It returns nil, ending the
// chain, once the watcher is closed.
func watchCmd(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			return ConfigChangedMsg{Path: path}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return ConfigWatchErrMsg{Err: err}
		case <-w.Done():
			return nil
		}
	}
}
