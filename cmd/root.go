package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/censuslab/popatlas/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "popatlas",
	Short: "Census district population change dashboard",
	Long:  "Joins per-year census district populations with boundary polygons and serves a choropleth of net population change per 10,000 citizens between two selected years.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
