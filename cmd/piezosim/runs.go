package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/piezosim/internal/analysis"
	"github.com/san-kum/piezosim/internal/config"
	"github.com/san-kum/piezosim/internal/report"
	"github.com/san-kum/piezosim/internal/sim"
	"github.com/san-kum/piezosim/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func loadRun(runID string) (*storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, samples, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tWAVEFORM\tDT\tSTEPS\tSLIDER (nm)\tSTATUS")
			for _, run := range runs {
				status := "ok"
				if run.Saturated {
					status = "saturated"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.3gs\t%d/%d\t%.4f\t%s\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Waveform.Kind,
					run.Run.Dt,
					run.StepsTaken,
					run.Run.Steps,
					run.Final.SliderPosition*1e9,
					status,
				)
			}
			return w.Flush()
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the summary and config of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := storage.New(dataDir).Load(args[0])
			if err != nil {
				return err
			}
			fmt.Println(report.SummaryFromMetadata(meta).Render())

			cfg := meta.Config()
			data, err := yaml.Marshal(&cfg)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s", data)
			return nil
		},
	}
}

func newPlotCmd() *cobra.Command {
	var (
		field  string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("no data to plot")
			}

			opts := report.PlotOptions{Width: width, Height: height}
			fmt.Printf("run: %s\nsamples: %d\n\n", meta.ID, len(samples))

			if field == "" {
				fmt.Println(report.PlotPositions(samples, opts))
				fmt.Println()
				fmt.Println(report.Plot(samples, analysis.Voltage, opts))
				return nil
			}
			f, err := analysis.ParseField(field)
			if err != nil {
				return err
			}
			fmt.Println(report.Plot(samples, f, opts))
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", "", fmt.Sprintf("field to plot, one of %v (default: positions and voltage)", analysis.Fields()))
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	return cmd
}

func newTraceCmd() *cobra.Command {
	var every int
	cmd := &cobra.Command{
		Use:   "trace [run_id]",
		Short: "print a stored trace as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if every > 1 {
				kept := make([]sim.Sample, 0, len(samples)/every+1)
				for i, s := range samples {
					if i%every == 0 || i == len(samples)-1 {
						kept = append(kept, s)
					}
				}
				samples = kept
			}
			return report.WriteText(os.Stdout, samples)
		},
	}
	cmd.Flags().IntVar(&every, "every", 1, "print every n-th sample")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored trace to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("no data to export")
			}
			return storage.WriteTrace(os.Stdout, samples)
		},
	}
}

func newExportJSONCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if output != "" {
				return report.ExportJSON(output, meta, samples)
			}
			return report.WriteJSON(os.Stdout, meta, samples)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tWAVEFORM\tMU_S\tMU_K\tGRAVITY\tSTEPS")
				for _, name := range config.ListPresets() {
					p := config.GetPreset(name)
					fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%d\n",
						name, p.Waveform.Kind, p.Actuator.CoefficientStatic,
						p.Actuator.CoefficientKinetic, p.Actuator.GravityAcceleration, p.Run.Steps)
				}
				return w.Flush()
			}

			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s", args[0])
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}
