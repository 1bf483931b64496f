package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/piezosim/internal/analysis"
	"github.com/san-kum/piezosim/internal/report"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		period   float64
		xField   string
		yField   string
		segments int
	)

	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "stick-slip statistics and phase portrait of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("no data")
			}

			if !cmd.Flags().Changed("period") {
				period = meta.Waveform.Period
			}
			stats := analysis.StepStats(samples, period)

			fmt.Println(report.Title.Render("step analysis: " + meta.ID))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "cycles\t%d\n", stats.Cycles)
			fmt.Fprintf(w, "step mean\t%.4f nm\n", stats.StepMean*1e9)
			fmt.Fprintf(w, "step stddev\t%.4f nm\n", stats.StepStdDev*1e9)
			fmt.Fprintf(w, "step range\t%.4f .. %.4f nm\n", stats.StepMin*1e9, stats.StepMax*1e9)
			fmt.Fprintf(w, "total travel\t%.4f nm\n", stats.TotalTravel*1e9)
			fmt.Fprintf(w, "slips\t%d\n", stats.SlipCount)
			fmt.Fprintf(w, "stick ratio\t%.1f%%\n", stats.StickRatio*100)
			if err := w.Flush(); err != nil {
				return err
			}

			if segments > 0 {
				fmt.Println()
				w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MODE\tSTART (us)\tEND (us)\tSTEPS\tTRAVEL (nm)")
				for i, seg := range analysis.Segments(samples) {
					if i >= segments {
						break
					}
					fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%d\t%.4f\n",
						seg.Mode, seg.StartTime*1e6, seg.EndTime*1e6, seg.Steps(), seg.Travel*1e9)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			x, err := analysis.ParseField(xField)
			if err != nil {
				return err
			}
			y, err := analysis.ParseField(yField)
			if err != nil {
				return err
			}
			fmt.Printf("\nphase portrait: %s vs %s (• stick, x slip)\n", y, x)
			fmt.Print(analysis.NewPhasePortrait(samples, x, y).ASCII(70, 20))
			return nil
		},
	}

	cmd.Flags().Float64Var(&period, "period", 0, "drive period (s), defaults to the waveform period")
	cmd.Flags().StringVar(&xField, "x", string(analysis.SliderPosition), "portrait x field")
	cmd.Flags().StringVar(&yField, "y", string(analysis.SliderVelocity), "portrait y field")
	cmd.Flags().IntVar(&segments, "segments", 0, "list the first n stick/slip segments")
	return cmd
}
