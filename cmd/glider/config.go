package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glider-run/internal/config"
)

var flagCheck string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default config",
	Long: `Prints the embedded default config as YAML. Save it as
~/.arcade/configs/glider.yaml or ./configs/glider.yaml, or pass it with
--config, and change only the values you need.

With --check, validates a config file instead.

Examples:
  glider config > glider.yaml
  glider config --check ./glider.yaml`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagCheck, "check", "", "Validate this config file and exit")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if flagCheck != "" {
		if _, err := config.LoadFile(flagCheck); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", flagCheck)
		return nil
	}

	_, err := os.Stdout.Write(config.DefaultYAML())
	return err
}
