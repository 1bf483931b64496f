package analysis

import (
	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/sim"
)

// Segment is a maximal run of consecutive samples in one mode.
type Segment struct {
	Mode      actuator.Mode
	FirstStep int
	LastStep  int
	StartTime float64
	EndTime   float64
	// Travel is the slider displacement from the sample before the segment
	// (or the first sample) to its last sample.
	Travel float64
}

func (s Segment) Steps() int { return s.LastStep - s.FirstStep + 1 }

func Segments(samples []sim.Sample) []Segment {
	if len(samples) == 0 {
		return nil
	}

	segs := make([]Segment, 0)
	origin := samples[0].State.SliderPosition
	cur := Segment{
		Mode:      samples[0].Mode,
		FirstStep: samples[0].Step,
		LastStep:  samples[0].Step,
		StartTime: samples[0].Time,
		EndTime:   samples[0].Time,
	}

	for _, s := range samples[1:] {
		if s.Mode != cur.Mode {
			segs = append(segs, cur)
			origin += cur.Travel
			cur = Segment{Mode: s.Mode, FirstStep: s.Step, StartTime: s.Time}
		}
		cur.LastStep = s.Step
		cur.EndTime = s.Time
		cur.Travel = s.State.SliderPosition - origin
	}
	return append(segs, cur)
}
