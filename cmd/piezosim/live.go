package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/sim"
	"github.com/san-kum/piezosim/internal/viz"
	"github.com/spf13/cobra"
)

func newLiveCmd() *cobra.Command {
	var (
		flags runFlags
		speed int
	)

	cmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			engine, err := actuator.New(cfg.Actuator)
			if err != nil {
				return err
			}
			drive, err := cfg.Waveform.Build()
			if err != nil {
				return err
			}

			m := viz.NewModel(sim.NewSession(engine, drive, cfg.Run.Dt), cfg.Name, speed)
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&speed, "speed", 4, "steps per frame")
	return cmd
}
