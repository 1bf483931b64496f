package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/san-kum/piezosim/internal/report"
	"github.com/san-kum/piezosim/internal/sweep"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var (
		flags    runFlags
		gridFile string
		grid     sweep.Grid
		workers  int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep friction coefficients and slew rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			if gridFile != "" {
				loaded, err := sweep.LoadGrid(gridFile)
				if err != nil {
					return err
				}
				changed := cmd.Flags().Changed
				if !changed("static") {
					grid.Static = loaded.Static
				}
				if !changed("kinetic") {
					grid.Kinetic = loaded.Kinetic
				}
				if !changed("slew-rates") {
					grid.SlewRates = loaded.SlewRates
				}
			}

			slog.Info("starting sweep", "points", grid.Size(), "workers", workers)
			start := time.Now()
			points, err := sweep.RunWithOptions(cmd.Context(), *base, grid, nil, sweep.Options{
				Workers: workers,
				Logger:  slog.Default(),
			})
			if err != nil {
				return err
			}
			slog.Info("sweep finished", "elapsed", elapsedSince(start))

			sum := sweep.Summarize(points)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Points  []sweep.Point `json:"points"`
					Summary sweep.Summary `json:"summary"`
				}{points, sum})
			}
			return report.WriteSweep(os.Stdout, points, sum)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&gridFile, "grid", "", "grid file (yaml)")
	cmd.Flags().Float64SliceVar(&grid.Static, "static", nil, "static coefficients to sweep")
	cmd.Flags().Float64SliceVar(&grid.Kinetic, "kinetic", nil, "kinetic coefficients to sweep")
	cmd.Flags().Float64SliceVar(&grid.SlewRates, "slew-rates", nil, "slew rates to sweep (V/s), 0 for unlimited")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 uses GOMAXPROCS)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print points as JSON")
	return cmd
}
