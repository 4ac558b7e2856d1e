package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/censuslab/popatlas/internal/pipeline"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the years present in the population dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadPopulation(cfg.Data)
		if err != nil {
			return err
		}

		for _, y := range pipeline.Pivot(records).Years {
			fmt.Println(y)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}
