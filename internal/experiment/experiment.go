package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/config"
	"github.com/san-kum/piezosim/internal/metrics"
	"github.com/san-kum/piezosim/internal/sim"
)

// Experiment is one configured run: an engine, its drive and the default
// metric set.
type Experiment struct {
	cfg       config.Config
	simulator *sim.Simulator
	logger    *slog.Logger
}

func New(cfg config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Experiment{cfg: cfg, logger: logger}
}

// Setup validates the config and builds the simulator.
func (e *Experiment) Setup() error {
	s, err := Build(e.cfg, e.logger)
	if err != nil {
		return err
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	e.logger.Info("starting run", "name", e.cfg.Name, "waveform", e.cfg.Waveform.Kind,
		"dt", e.cfg.Run.Dt, "steps", e.cfg.Run.Steps, "duration", e.cfg.Run.Duration())
	return e.simulator.Run(ctx, e.cfg.Run.Sim())
}

func (e *Experiment) Config() config.Config { return e.cfg }

// Build turns a config into a ready simulator. Every call returns a fresh
// drive, so simulators never share waveform state.
func Build(cfg config.Config, logger *slog.Logger) (*sim.Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	engine, err := actuator.New(cfg.Actuator)
	if err != nil {
		return nil, err
	}
	drive, err := cfg.Waveform.Build()
	if err != nil {
		return nil, err
	}

	s := sim.New(engine, drive)
	for _, m := range metrics.Default(engine.Params()) {
		s.AddMetric(m)
	}
	if logger != nil {
		s.SetLogger(logger.With("run", cfg.Name))
	}
	return s, nil
}

// Run builds and runs cfg in one call.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sim.Result, error) {
	e := New(cfg, logger)
	if err := e.Setup(); err != nil {
		return nil, err
	}
	return e.Run(ctx)
}
