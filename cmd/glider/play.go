package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/glider-run/internal/audio"
	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/core"
	"github.com/vovakirdan/glider-run/internal/games/glider"
	"github.com/vovakirdan/glider-run/internal/platform/tui"
	"github.com/vovakirdan/glider-run/internal/registry"
	"github.com/vovakirdan/glider-run/internal/share"
)

var (
	flagConfig     string
	flagDifficulty string
	flagWatch      bool
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Glider Run",
	Long: `Start playing in the terminal.

Controls:
  Space/Up/W - Jump; press again in the air to glide
  S/Down     - Stop gliding
  P/Esc      - Pause
  R/Enter    - Restart (after game over)
  S          - Share your score (after game over)
  Q/Ctrl+C   - Quit

Terminals do not report key releases, so a glide also ends once the jump
key stops repeating.

Difficulty options:
  easy   - Start at the beginning of the speed ramp
  normal - Start 30% into the ramp
  hard   - Start 70% into the ramp
  fixed  - No progression, stays at the config's initial level

Examples:
  glider play
  glider play --difficulty hard
  glider play --config ./glider.yaml --watch
  glider play --mute`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload --config when it changes (applies from the next run)")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	if flagWatch && flagConfig == "" {
		return fmt.Errorf("--watch needs --config")
	}
	// Fail fast on a broken file instead of silently playing the defaults.
	if flagConfig != "" {
		if _, err := config.LoadFile(flagConfig); err != nil {
			return err
		}
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	sound := audio.NewSoundManager(flagMute, logger)
	if err := sound.Initialize(); err != nil {
		logger.Warn("sound disabled", "err", err)
	}
	defer sound.Close()

	glider.Configure(glider.Options{
		ConfigPath: flagConfig,
		Preset:     preset,
		Audio:      sound,
		Sharer:     share.New(share.Options{Logger: logger}),
		Logger:     logger,
	})
	game, err := registry.Create(glider.ID)
	if err != nil {
		return err
	}

	var watcher *config.Watcher
	if flagWatch {
		watcher, err = config.NewWatcher(flagConfig)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		defer watcher.Close()
		logger.Info("watching config", "path", watcher.Path())
	}

	logger.Info("starting", "fps", flagFPS, "seed", flagSeed, "difficulty", preset)
	return tui.Run(game, tui.Options{
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Watcher: watcher,
		Logger:  logger,
	})
}
