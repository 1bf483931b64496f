package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "piezosim",
		Short:         "piezo stick-slip actuator simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".piezosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newShowCmd(),
		newPlotCmd(),
		newTraceCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newPresetsCmd(),
		newSweepCmd(),
		newAnalyzeCmd(),
		newLiveCmd(),
		newBenchCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      lvl,
			TimeFormat: "15:04:05",
		}),
	))
	return nil
}

// runFlags holds the flags shared by every command that builds a config.
// Explicitly set flags win over the config file, which wins over the preset.
type runFlags struct {
	preset     string
	configFile string

	dt          float64
	steps       int
	recordEvery int
	limit       float64

	waveform string
	peak     float64
	rise     float64
	fall     float64
	period   float64
	duty     float64
	blend    float64
	slew     float64

	muS           float64
	muK           float64
	normalForce   float64
	threshold     float64
	gravity       float64
	lock          string
	gravityPolicy string
}

func (f *runFlags) register(cmd *cobra.Command) {
	def := config.DefaultConfig()
	fs := cmd.Flags()

	fs.StringVar(&f.preset, "preset", "", "start from a named preset (see 'presets')")
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")

	fs.Float64Var(&f.dt, "dt", def.Run.Dt, "timestep (s)")
	fs.IntVar(&f.steps, "steps", def.Run.Steps, "number of steps")
	fs.IntVar(&f.recordEvery, "record-every", def.Run.RecordEvery, "keep every n-th sample")
	fs.Float64Var(&f.limit, "limit", def.Run.PositionLimit, "stop when |slider position| exceeds this (m), 0 disables")

	fs.StringVar(&f.waveform, "waveform", def.Waveform.Kind, "waveform kind")
	fs.Float64Var(&f.peak, "peak", def.Waveform.Peak, "waveform peak (V)")
	fs.Float64Var(&f.rise, "rise", def.Waveform.RiseTime, "ramp rise time (s)")
	fs.Float64Var(&f.fall, "fall", def.Waveform.FallTime, "ramp fall time (s)")
	fs.Float64Var(&f.period, "period", def.Waveform.Period, "sawtooth/triangle period (s)")
	fs.Float64Var(&f.duty, "duty", def.Waveform.Duty, "sawtooth rising fraction")
	fs.Float64Var(&f.blend, "blend", def.Waveform.Blend, "parabolic share of each edge")
	fs.Float64Var(&f.slew, "slew", def.Waveform.SlewRate, "slew rate limit (V/s), 0 disables")

	fs.Float64Var(&f.muS, "mu-s", def.Actuator.CoefficientStatic, "static friction coefficient")
	fs.Float64Var(&f.muK, "mu-k", def.Actuator.CoefficientKinetic, "kinetic friction coefficient")
	fs.Float64Var(&f.normalForce, "normal-force", def.Actuator.NormalForce, "normal force (N)")
	fs.Float64Var(&f.threshold, "threshold", def.Actuator.KineticVelocityThreshold, "kinetic velocity threshold (m/s)")
	fs.Float64Var(&f.gravity, "gravity", def.Actuator.GravityAcceleration, "gravity along the axis (m/s^2)")
	fs.StringVar(&f.lock, "lock", string(def.Actuator.Lock), "static lock policy (snap, free)")
	fs.StringVar(&f.gravityPolicy, "gravity-policy", string(def.Actuator.Gravity), "gravity placement (independent, balance)")
}

func (f *runFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", f.preset, strings.Join(config.ListPresets(), ", "))
		}
	}
	if f.configFile != "" {
		if err := cfg.LoadFile(f.configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	changed := cmd.Flags().Changed
	setF := func(name string, dst *float64, v float64) {
		if changed(name) {
			*dst = v
		}
	}

	setF("dt", &cfg.Run.Dt, f.dt)
	if changed("steps") {
		cfg.Run.Steps = f.steps
	}
	if changed("record-every") {
		cfg.Run.RecordEvery = f.recordEvery
	}
	setF("limit", &cfg.Run.PositionLimit, f.limit)

	if changed("waveform") {
		cfg.Waveform.Kind = f.waveform
	}
	setF("peak", &cfg.Waveform.Peak, f.peak)
	setF("rise", &cfg.Waveform.RiseTime, f.rise)
	setF("fall", &cfg.Waveform.FallTime, f.fall)
	setF("period", &cfg.Waveform.Period, f.period)
	setF("duty", &cfg.Waveform.Duty, f.duty)
	setF("blend", &cfg.Waveform.Blend, f.blend)
	setF("slew", &cfg.Waveform.SlewRate, f.slew)

	setF("mu-s", &cfg.Actuator.CoefficientStatic, f.muS)
	setF("mu-k", &cfg.Actuator.CoefficientKinetic, f.muK)
	setF("normal-force", &cfg.Actuator.NormalForce, f.normalForce)
	setF("threshold", &cfg.Actuator.KineticVelocityThreshold, f.threshold)
	setF("gravity", &cfg.Actuator.GravityAcceleration, f.gravity)
	if changed("lock") {
		cfg.Actuator.Lock = actuator.LockPolicy(f.lock)
	}
	if changed("gravity-policy") {
		cfg.Actuator.Gravity = actuator.GravityPolicy(f.gravityPolicy)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func elapsedSince(start time.Time) time.Duration {
	return time.Since(start).Round(time.Microsecond)
}
