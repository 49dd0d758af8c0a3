// Package share publishes a final score by opening a pre-filled tweet in
// the user's browser.
package share

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"
)

// IntentURL is the tweet composer endpoint.
const IntentURL = "https://twitter.com/intent/tweet"

// DefaultGameURL is linked from every shared score.
const DefaultGameURL = "https://github.com/vovakirdan/glider-run"

// ErrNoScore is returned for a negative score, which no finished run has.
var ErrNoScore = errors.New("no score to share")

// Options configure a Sharer.
type Options struct {
	GameURL  string
	Hashtags []string
	Via      string // Account tagged in the tweet, without the @
	Logger   *log.Logger

	// Open shows the URL to the user. Defaults to the system browser.
	Open func(url string) error
}

// Sharer implements sim.Sharer.
type Sharer struct {
	gameURL  string
	hashtags []string
	via      string
	open     func(string) error
	log      *log.Logger
}

// New creates a sharer. Zero options get the game's defaults.
func New(opts Options) *Sharer {
	s := &Sharer{
		gameURL:  opts.GameURL,
		hashtags: opts.Hashtags,
		via:      opts.Via,
		open:     opts.Open,
		log:      opts.Logger,
	}
	if s.gameURL == "" {
		s.gameURL = DefaultGameURL
	}
	if s.hashtags == nil {
		s.hashtags = []string{"GliderRun", "WebGame", "Gaming"}
	}
	if s.via == "" {
		s.via = "Ramx_ai"
	}
	if s.open == nil {
		s.open = openBrowser
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}
	return s
}

// openBrowser opens url without letting the browser launcher write over the
// terminal UI.
func openBrowser(u string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(u)
}

// Text returns the tweet text for a score.
func Text(score int) string {
	return fmt.Sprintf("I just scored %d emeralds in Glider Run! 🎮✨ Can you beat my score?", score)
}

// URL returns the intent URL for a score.
func (s *Sharer) URL(score int) (string, error) {
	if score < 0 {
		return "", ErrNoScore
	}

	params := []struct{ key, value string }{
		{"text", Text(score)},
		{"url", s.gameURL},
		{"hashtags", strings.Join(s.hashtags, ",")},
		{"via", s.via},
	}

	var sb strings.Builder
	sb.WriteString(IntentURL)
	for i, p := range params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(escape(p.value))
	}
	return sb.String(), nil
}

// escape percent-encodes a query value with spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Share opens the intent URL for score.
func (s *Sharer) Share(score int) error {
	u, err := s.URL(score)
	if err != nil {
		return err
	}
	if err := s.open(u); err != nil {
		return fmt.Errorf("open share page: %w", err)
	}
	s.log.Info("share page opened", "score", score)
	return nil
}
