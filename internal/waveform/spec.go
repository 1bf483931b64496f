package waveform

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownKind = errors.New("waveform: unknown kind")

// Spec is the serialized form of a waveform.
type Spec struct {
	Kind     string  `yaml:"kind" json:"kind"`
	Peak     float64 `yaml:"peak" json:"peak"`
	RiseTime float64 `yaml:"rise_time" json:"rise_time,omitempty"`
	FallTime float64 `yaml:"fall_time" json:"fall_time,omitempty"`
	Period   float64 `yaml:"period" json:"period,omitempty"`
	Duty     float64 `yaml:"duty" json:"duty,omitempty"`
	Blend    float64 `yaml:"blend" json:"blend,omitempty"`
	SlewRate float64 `yaml:"slew_rate" json:"slew_rate,omitempty"`
}

var builders = map[string]func(Spec) (Waveform, error){
	"constant": func(s Spec) (Waveform, error) {
		return Constant(s.Peak), nil
	},
	"ramp": func(s Spec) (Waveform, error) {
		if s.RiseTime <= 0 {
			return nil, fmt.Errorf("waveform: ramp needs positive rise_time, got %g", s.RiseTime)
		}
		if s.FallTime < 0 {
			return nil, fmt.Errorf("waveform: ramp fall_time must not be negative, got %g", s.FallTime)
		}
		return Ramp{Peak: s.Peak, RiseTime: s.RiseTime, FallTime: s.FallTime, Blend: s.Blend}, nil
	},
	"sawtooth": func(s Spec) (Waveform, error) {
		if s.Period <= 0 {
			return nil, fmt.Errorf("waveform: sawtooth needs positive period, got %g", s.Period)
		}
		if s.Duty <= 0 || s.Duty > 1 {
			return nil, fmt.Errorf("waveform: sawtooth duty must be in (0, 1], got %g", s.Duty)
		}
		return Sawtooth{Peak: s.Peak, Period: s.Period, Duty: s.Duty, Blend: s.Blend}, nil
	},
	"triangle": func(s Spec) (Waveform, error) {
		if s.Period <= 0 {
			return nil, fmt.Errorf("waveform: triangle needs positive period, got %g", s.Period)
		}
		return Triangle{Peak: s.Peak, Period: s.Period}, nil
	},
}

// Build returns a fresh waveform for s. A positive SlewRate wraps the result
// in a SlewLimited.
func (s Spec) Build() (Waveform, error) {
	fn, ok := builders[s.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	w, err := fn(s)
	if err != nil {
		return nil, err
	}
	if s.SlewRate < 0 {
		return nil, fmt.Errorf("waveform: slew_rate must not be negative, got %g", s.SlewRate)
	}
	if s.SlewRate > 0 {
		return NewSlewLimited(w, s.SlewRate), nil
	}
	return w, nil
}

func Kinds() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReferenceSpec is the Spec form of Reference.
func ReferenceSpec() Spec {
	r := Reference()
	return Spec{Kind: "ramp", Peak: r.Peak, RiseTime: r.RiseTime, FallTime: r.FallTime, Blend: r.Blend}
}
