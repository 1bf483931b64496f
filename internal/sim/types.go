package sim

import (
	"fmt"

	"github.com/san-kum/piezosim/internal/actuator"
)

// Sample is the state after one step. Time is the end of the step; the
// recorded control voltage is the one applied during it.
type Sample struct {
	Step  int            `json:"step"`
	Time  float64        `json:"time"`
	State actuator.State `json:"state"`
	Mode  actuator.Mode  `json:"mode"`
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnStep(s Sample) { f(s) }

type Config struct {
	Dt    float64
	Steps int
	// RecordEvery keeps every n-th sample in the result; the last step is
	// always kept. Zero records every step.
	RecordEvery int
	// PositionLimit stops the run once |slider position| exceeds it. Zero
	// disables the check.
	PositionLimit float64
}

func DefaultConfig() Config {
	return Config{
		Dt:            1e-6,
		Steps:         1000,
		RecordEvery:   1,
		PositionLimit: 1e-3,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", c.RecordEvery)
	}
	if c.PositionLimit < 0 {
		return fmt.Errorf("position limit must not be negative, got %g", c.PositionLimit)
	}
	return nil
}

type Result struct {
	Samples      []Sample
	Final        Sample
	Metrics      map[string]float64
	StepsTaken   int
	KineticSteps int
	// Saturated is set when the slider left the position limit. Drivers
	// report this as a crashed run.
	Saturated bool
}
