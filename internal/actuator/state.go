package actuator

import (
	"fmt"
	"math"
)

// Mode is the friction regime of a single step.
type Mode int

const (
	Static Mode = iota
	Kinetic
)

func (m Mode) String() string {
	switch m {
	case Static:
		return "static"
	case Kinetic:
		return "kinetic"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "static":
		return Static, true
	case "kinetic":
		return Kinetic, true
	}
	return Static, false
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, ok := ParseMode(string(text))
	if !ok {
		return fmt.Errorf("actuator: unknown mode %q", text)
	}
	*m = parsed
	return nil
}

// State is the mutable simulation state. The zero value is a system at rest
// with zero voltage applied.
type State struct {
	ControlVoltage float64 `json:"control_voltage"`
	PiezoPosition  float64 `json:"piezo_position"`
	PiezoVelocity  float64 `json:"piezo_velocity"`
	SliderPosition float64 `json:"slider_position"`
	SliderVelocity float64 `json:"slider_velocity"`
}

// RelativeVelocity returns sliderVelocity - piezoVelocity.
func (s State) RelativeVelocity() float64 {
	return s.SliderVelocity - s.PiezoVelocity
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.ControlVoltage, s.PiezoPosition, s.PiezoVelocity, s.SliderPosition, s.SliderVelocity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
