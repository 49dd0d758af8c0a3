// glider runs Glider Run, an endless runner, in the terminal.
//
// Usage:
//
//	glider play              - Play in the terminal
//	glider sim               - Run headless sessions and print a summary
//	glider config            - Print the default config YAML
//	glider list              - List available games
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--log-file <path>    - Write logs to a file (default: discard)
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glider-run/internal/clock"

	// Import games to register them
	_ "github.com/vovakirdan/glider-run/internal/games/glider"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "glider",
	Short: "Glider Run - jump, glide and collect emeralds in your terminal",
	Long: `Glider Run is an endless runner. Jump over the rocks, press again in
the air to glide, and collect as many emeralds as you can before you crash.

Available commands:
  play     - Play in the terminal
  sim      - Run headless sessions with an autopilot
  config   - Print the default config
  list     - Show all available games

Examples:
  glider play
  glider play --difficulty hard
  glider play --config ./glider.yaml --watch
  glider sim --runs 10 --seconds 120`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateGlobalFlags()
	},
}

func validateGlobalFlags() error {
	if flagFPS < 1 || flagFPS > clock.MaxTickRate {
		return fmt.Errorf("--fps must be between 1 and %d", clock.MaxTickRate)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(configCmd)
}
