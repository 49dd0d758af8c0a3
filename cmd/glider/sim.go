package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/games/glider"
)

var (
	flagRuns      int
	flagSeconds   int
	flagAutopilot bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless sessions and print a summary",
	Long: `Plays sessions without a terminal, as fast as the machine allows, and
prints one row per run. Each run uses --seed plus its index, so results are
reproducible. Useful for checking a config before playing it.

Examples:
  glider sim
  glider sim --runs 20 --seconds 300
  glider sim --autopilot=false --difficulty hard
  glider sim --config ./glider.yaml`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagRuns, "runs", 5, "Number of sessions")
	simCmd.Flags().IntVar(&flagSeconds, "seconds", 180, "Simulated time limit per session")
	simCmd.Flags().BoolVar(&flagAutopilot, "autopilot", true, "Let the autopilot jump; otherwise the player stays idle")
	simCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	simCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runSim(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	if err := validateSimFlags(); err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	config.ApplyPreset(&cfg, preset)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var pilot *glider.Autopilot
	if flagAutopilot {
		ap := glider.DefaultAutopilot()
		pilot = &ap
	}

	rows := make([]table.Row, 0, flagRuns)
	total := 0
	for i := 0; i < flagRuns; i++ {
		res := glider.RunHeadless(cfg, glider.HeadlessOptions{
			Seed:        seed + int64(i),
			TickRate:    flagFPS,
			MaxDuration: time.Duration(flagSeconds) * time.Second,
			Autopilot:   pilot,
			Logger:      logger,
		})
		total += res.Score

		outcome := "crashed"
		if !res.Over {
			outcome = "survived"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			strconv.FormatInt(res.Seed, 10),
			strconv.Itoa(res.Score),
			res.Elapsed.Truncate(10 * time.Millisecond).String(),
			fmt.Sprintf("%.2f", res.FinalSpeed),
			strconv.Itoa(res.ObstaclesSpawned),
			outcome,
		})
	}

	fmt.Println(renderSimTable(rows))
	fmt.Printf("\nAverage emeralds: %.1f over %d run(s)\n", float64(total)/float64(flagRuns), flagRuns)
	return nil
}

func validateSimFlags() error {
	if flagRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}
	if flagSeconds < 1 {
		return fmt.Errorf("--seconds must be at least 1")
	}
	return nil
}

func renderSimTable(rows []table.Row) string {
	columns := []table.Column{
		{Title: "Run", Width: 4},
		{Title: "Seed", Width: 20},
		{Title: "Emeralds", Width: 9},
		{Title: "Time", Width: 10},
		{Title: "Speed", Width: 6},
		{Title: "Rocks", Width: 6},
		{Title: "Outcome", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	t.SetStyles(s)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(t.View())
}
