package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/piezosim/internal/config"
	"github.com/san-kum/piezosim/internal/experiment"
	"github.com/san-kum/piezosim/internal/report"
	"github.com/san-kum/piezosim/internal/storage"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		flags      runFlags
		noSave     bool
		saveConfig string
		plot       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if saveConfig != "" {
				if err := config.Save(saveConfig, cfg); err != nil {
					return err
				}
				slog.Info("config written", "path", saveConfig)
			}

			start := time.Now()
			result, err := experiment.Run(cmd.Context(), *cfg, slog.Default())
			if err != nil {
				return err
			}
			slog.Info("run finished", "name", cfg.Name, "elapsed", elapsedSince(start))

			fmt.Println(report.SummaryFromResult(cfg.Name, cfg.Run.Steps, result).Render())
			if plot {
				fmt.Println()
				fmt.Println(report.PlotPositions(result.Samples, report.DefaultPlotOptions()))
			}

			if noSave {
				return nil
			}
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			runID, err := st.Save(*cfg, result)
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", runID)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this yaml file")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot positions after the run")
	return cmd
}
