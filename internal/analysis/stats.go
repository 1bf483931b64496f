package analysis

import (
	"math"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes slider motion over a periodic drive.
type Stats struct {
	Cycles      int     `json:"cycles"`
	StepMean    float64 `json:"step_mean"`
	StepStdDev  float64 `json:"step_std_dev"`
	StepMin     float64 `json:"step_min"`
	StepMax     float64 `json:"step_max"`
	TotalTravel float64 `json:"total_travel"`
	SlipCount   int     `json:"slip_count"`
	StickRatio  float64 `json:"stick_ratio"`
}

// StepStats measures the slider advance per drive period. Only complete
// periods count as cycles; period <= 0 treats the trace as a single cycle.
func StepStats(samples []sim.Sample, period float64) Stats {
	var st Stats
	if len(samples) == 0 {
		return st
	}

	sticks := 0
	prev := actuator.Static
	for _, s := range samples {
		if s.Mode == actuator.Static {
			sticks++
		} else if prev == actuator.Static {
			st.SlipCount++
		}
		prev = s.Mode
	}
	st.StickRatio = float64(sticks) / float64(len(samples))

	first, last := samples[0], samples[len(samples)-1]
	st.TotalTravel = last.State.SliderPosition - first.State.SliderPosition

	steps := cycleSteps(samples, period)
	if len(steps) == 0 {
		return st
	}

	st.Cycles = len(steps)
	st.StepMin = floats.Min(steps)
	st.StepMax = floats.Max(steps)
	if len(steps) == 1 {
		st.StepMean = steps[0]
		return st
	}
	st.StepMean, st.StepStdDev = stat.MeanStdDev(steps, nil)
	return st
}

// cycleSteps returns the slider displacement across each complete period,
// measured between the samples closest to the period boundaries.
func cycleSteps(samples []sim.Sample, period float64) []float64 {
	if period <= 0 {
		return []float64{samples[len(samples)-1].State.SliderPosition - samples[0].State.SliderPosition}
	}

	boundaries := make([]float64, 0)
	next := 0.0
	for _, s := range samples {
		if s.Time+1e-15 >= next {
			boundaries = append(boundaries, s.State.SliderPosition)
			next = (math.Floor(s.Time/period+1e-9) + 1) * period
		}
	}

	if len(boundaries) < 2 {
		return nil
	}
	steps := make([]float64, len(boundaries)-1)
	floats.SubTo(steps, boundaries[1:], boundaries[:len(boundaries)-1])
	return steps
}
