package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/piezosim/internal/actuator"
)

var (
	// ErrUnstable indicates the state became NaN or Inf.
	ErrUnstable = errors.New("sim: simulation unstable (non-finite state)")

	// ErrNotConfigured indicates a simulator without engine or drive.
	ErrNotConfigured = errors.New("sim: simulator needs an engine and a waveform")
)

// StepError wraps an error with the step at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	State   actuator.State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.3gs): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
