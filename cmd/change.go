package main

import (
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/censuslab/popatlas/internal/pipeline"
)

var changePrinter = message.NewPrinter(language.English)

// formatChange renders a signed per-10k value with digit grouping.
func formatChange(v int64) string {
	return changePrinter.Sprintf("%+d", v)
}

var (
	changeFrom int
	changeTo   int
)

var changeCmd = &cobra.Command{
	Use:   "change",
	Short: "Print per-district population change between two years",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd.Context(), cfg.Data)
		if err != nil {
			return err
		}

		layer, err := snap.ChangeLayer(changeFrom, changeTo)
		if err != nil {
			return err
		}

		return renderChangeTable(os.Stdout, layer)
	},
}

// renderChangeTable writes the joined change layer as an aligned text
// table.
func renderChangeTable(w io.Writer, layer *pipeline.ChangeLayer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if _, err := io.WriteString(tw, "DISTRICT\tNAME\tPROVINCE\tCHANGE/10K\n"); err != nil {
		return err
	}
	for _, f := range layer.Features {
		change := "no data"
		if f.Value != nil {
			change = formatChange(*f.Value)
		}
		if _, err := io.WriteString(tw, f.DistrictID+"\t"+f.Name+"\t"+f.Province+"\t"+change+"\n"); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func init() {
	changeCmd.Flags().IntVar(&changeFrom, "from", 0, "starting year")
	changeCmd.Flags().IntVar(&changeTo, "to", 0, "ending year")
	_ = changeCmd.MarkFlagRequired("from")
	_ = changeCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(changeCmd)
}
