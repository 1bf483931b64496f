package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/waveform"
)

// Session steps one actuator state forward under a drive waveform. It is the
// single owner of that state.
type Session struct {
	engine *actuator.Engine
	drive  waveform.Waveform
	dt     float64
	state  actuator.State
	step   int
}

func NewSession(engine *actuator.Engine, drive waveform.Waveform, dt float64) *Session {
	s := &Session{engine: engine, drive: drive, dt: dt}
	s.Reset()
	return s
}

// Next advances one step. The voltage is sampled at the start of the step.
func (s *Session) Next() Sample {
	t := float64(s.step) * s.dt
	mode := s.engine.Step(&s.state, s.drive.Voltage(t), s.dt)
	s.step++
	return Sample{
		Step:  s.step,
		Time:  float64(s.step) * s.dt,
		State: s.state,
		Mode:  mode,
	}
}

func (s *Session) State() actuator.State { return s.state }
func (s *Session) Steps() int            { return s.step }
func (s *Session) Dt() float64           { return s.dt }

// Reset returns to the zero state at t = 0 and rewinds a stateful drive.
func (s *Session) Reset() {
	s.state = s.engine.Create()
	s.step = 0
	if r, ok := s.drive.(waveform.Resetter); ok {
		r.Reset()
	}
}

type Simulator struct {
	engine    *actuator.Engine
	drive     waveform.Waveform
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(engine *actuator.Engine, drive waveform.Waveform) *Simulator {
	return &Simulator{
		engine:    engine,
		drive:     drive,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.New(slog.DiscardHandler),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) Engine() *actuator.Engine { return s.engine }

// Run steps a fresh state cfg.Steps times. It returns early without error
// when the slider passes cfg.PositionLimit, and with the context error when
// ctx is done. A non-finite state aborts the run with a *StepError.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	every := cfg.RecordEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, cfg.Steps/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	session := NewSession(s.engine, s.drive, cfg.Dt)
	debug := s.logger.Enabled(ctx, slog.LevelDebug)
	prev := actuator.Static

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sample := session.Next()
		if !sample.State.IsValid() {
			return result, &StepError{Step: sample.Step, Time: sample.Time, State: sample.State, Wrapped: ErrUnstable}
		}

		result.StepsTaken++
		if sample.Mode == actuator.Kinetic {
			result.KineticSteps++
		}
		if debug && sample.Mode != prev {
			s.logger.Debug("mode change", "step", sample.Step, "from", prev, "to", sample.Mode,
				"voltage", sample.State.ControlVoltage)
		}
		prev = sample.Mode

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}

		saturated := cfg.PositionLimit > 0 && math.Abs(sample.State.SliderPosition) > cfg.PositionLimit
		if i%every == 0 || i == cfg.Steps-1 || saturated {
			result.Samples = append(result.Samples, sample)
		}
		result.Final = sample

		if saturated {
			result.Saturated = true
			s.logger.Warn("slider left position limit", "step", sample.Step,
				"position", sample.State.SliderPosition, "limit", cfg.PositionLimit)
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run complete", "steps", result.StepsTaken, "kinetic", result.KineticSteps,
		"saturated", result.Saturated)
	return result, nil
}

// RunWithCallback steps until cfg.Steps, the position limit, or fn returns
// false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(Sample) bool) error {
	if err := s.validate(cfg); err != nil {
		return err
	}

	session := NewSession(s.engine, s.drive, cfg.Dt)
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sample := session.Next()
		if !sample.State.IsValid() {
			return &StepError{Step: sample.Step, Time: sample.Time, State: sample.State, Wrapped: ErrUnstable}
		}
		if !fn(sample) {
			return nil
		}
		if cfg.PositionLimit > 0 && math.Abs(sample.State.SliderPosition) > cfg.PositionLimit {
			return nil
		}
	}
	return nil
}

func (s *Simulator) validate(cfg Config) error {
	if s.engine == nil || s.drive == nil {
		return ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	return nil
}
