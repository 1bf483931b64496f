package analysis

import (
	"fmt"

	"github.com/san-kum/piezosim/internal/sim"
)

// Field selects one scalar of a sample.
type Field string

const (
	Time             Field = "time"
	Voltage          Field = "voltage"
	PiezoPosition    Field = "piezo_position"
	PiezoVelocity    Field = "piezo_velocity"
	SliderPosition   Field = "slider_position"
	SliderVelocity   Field = "slider_velocity"
	RelativeVelocity Field = "relative_velocity"
)

var fields = []Field{Time, Voltage, PiezoPosition, PiezoVelocity, SliderPosition, SliderVelocity, RelativeVelocity}

func Fields() []Field { return fields }

func ParseField(s string) (Field, error) {
	for _, f := range fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q (available: %v)", s, fields)
}

func (f Field) Value(s sim.Sample) float64 {
	switch f {
	case Time:
		return s.Time
	case Voltage:
		return s.State.ControlVoltage
	case PiezoPosition:
		return s.State.PiezoPosition
	case PiezoVelocity:
		return s.State.PiezoVelocity
	case SliderPosition:
		return s.State.SliderPosition
	case SliderVelocity:
		return s.State.SliderVelocity
	case RelativeVelocity:
		return s.State.RelativeVelocity()
	}
	return 0
}

// Series extracts f from every sample.
func Series(samples []sim.Sample, f Field) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = f.Value(s)
	}
	return out
}
