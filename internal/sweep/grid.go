package sweep

import (
	"fmt"
	"os"

	"github.com/san-kum/piezosim/internal/config"
	"gopkg.in/yaml.v3"
)

// Grid lists the values to cross. An empty axis keeps the base value.
type Grid struct {
	Static    []float64 `yaml:"static" json:"static"`
	Kinetic   []float64 `yaml:"kinetic" json:"kinetic"`
	SlewRates []float64 `yaml:"slew_rates" json:"slew_rates"`
}

func LoadGrid(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var grid Grid
	if err := yaml.Unmarshal(data, &grid); err != nil {
		return nil, fmt.Errorf("sweep: parse %s: %w", path, err)
	}
	return &grid, nil
}

// Size is the number of points the grid expands to.
func (g Grid) Size() int {
	return max(len(g.Static), 1) * max(len(g.Kinetic), 1) * max(len(g.SlewRates), 1)
}

func (g Grid) Validate() error {
	for _, v := range g.Static {
		if v < 0 {
			return fmt.Errorf("sweep: static coefficient must not be negative, got %g", v)
		}
	}
	for _, v := range g.Kinetic {
		if v < 0 {
			return fmt.Errorf("sweep: kinetic coefficient must not be negative, got %g", v)
		}
	}
	for _, v := range g.SlewRates {
		if v < 0 {
			return fmt.Errorf("sweep: slew rate must not be negative, got %g", v)
		}
	}
	return nil
}

// Expand returns one config per grid point, static coefficient outermost and
// slew rate innermost. Kinetic above static is kept as given.
func (g Grid) Expand(base config.Config) []config.Config {
	static := axis(g.Static, base.Actuator.CoefficientStatic)
	kinetic := axis(g.Kinetic, base.Actuator.CoefficientKinetic)
	slew := axis(g.SlewRates, base.Waveform.SlewRate)

	out := make([]config.Config, 0, g.Size())
	for _, ms := range static {
		for _, mk := range kinetic {
			for _, rate := range slew {
				cfg := base
				cfg.Name = fmt.Sprintf("%s_ms%g_mk%g_slew%g", base.Name, ms, mk, rate)
				cfg.Actuator.CoefficientStatic = ms
				cfg.Actuator.CoefficientKinetic = mk
				cfg.Waveform.SlewRate = rate
				out = append(out, cfg)
			}
		}
	}
	return out
}

func axis(values []float64, fallback float64) []float64 {
	if len(values) == 0 {
		return []float64{fallback}
	}
	return values
}
