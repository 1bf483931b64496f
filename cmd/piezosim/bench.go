package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/piezosim/internal/experiment"
	"github.com/san-kum/piezosim/internal/sim"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		flags   runFlags
		jobs    int
		workers int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the step loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			runCfg := cfg.Run.Sim()
			runCfg.RecordEvery = runCfg.Steps

			dts := []float64{cfg.Run.Dt / 4, cfg.Run.Dt / 2, cfg.Run.Dt}
			resonance := cfg.Actuator.ResonanceFrequency()

			fmt.Printf("benchmarking %s (%d steps, piezo resonance %.4g Hz)\n\n", cfg.Name, runCfg.Steps, resonance)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODE\tDT\tSTEPS/PERIOD\tJOBS\tTIME\tSTEPS/SEC")

			for _, dt := range dts {
				runCfg.Dt = dt
				s, err := experiment.Build(*cfg, nil)
				if err != nil {
					return err
				}

				steps := 0
				start := time.Now()
				err = s.RunWithCallback(cmd.Context(), runCfg, func(sim.Sample) bool {
					steps++
					return true
				})
				if err != nil {
					return err
				}
				elapsed := time.Since(start)
				fmt.Fprintf(w, "sequential\t%.3gs\t%.0f\t1\t%v\t%.0f\n",
					dt, 1/(resonance*dt), elapsed, float64(steps)/elapsed.Seconds())
			}

			runCfg.Dt = cfg.Run.Dt
			batch := make([]sim.Job, jobs)
			for i := range batch {
				s, err := experiment.Build(*cfg, nil)
				if err != nil {
					return err
				}
				batch[i] = sim.Job{Name: fmt.Sprintf("bench-%d", i), Simulator: s, Config: runCfg}
			}

			start := time.Now()
			results, err := sim.NewEnsemble(workers).Run(cmd.Context(), batch)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			total := 0
			for _, r := range results {
				total += r.StepsTaken
			}
			fmt.Fprintf(w, "ensemble\t%.3gs\t%.0f\t%d\t%v\t%.0f\n",
				runCfg.Dt, 1/(resonance*runCfg.Dt), jobs, elapsed, float64(total)/elapsed.Seconds())

			return w.Flush()
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&jobs, "jobs", 8, "independent runs in the ensemble pass")
	cmd.Flags().IntVar(&workers, "workers", 0, "ensemble workers (0 uses GOMAXPROCS)")
	return cmd
}
