package report

import "github.com/san-kum/piezosim/internal/analysis"

// Unit is the display scale of a field: display = raw * Scale.
type Unit struct {
	Scale float64
	Label string
}

var units = map[analysis.Field]Unit{
	analysis.Time:             {1e6, "us"},
	analysis.Voltage:          {1, "V"},
	analysis.PiezoPosition:    {1e9, "nm"},
	analysis.SliderPosition:   {1e9, "nm"},
	analysis.PiezoVelocity:    {1e6, "um/s"},
	analysis.SliderVelocity:   {1e6, "um/s"},
	analysis.RelativeVelocity: {1e6, "um/s"},
}

func UnitOf(f analysis.Field) Unit {
	if u, ok := units[f]; ok {
		return u
	}
	return Unit{Scale: 1}
}

// Scaled converts raw values of f to display units.
func Scaled(values []float64, f analysis.Field) []float64 {
	u := UnitOf(f)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * u.Scale
	}
	return out
}
