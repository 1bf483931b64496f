// Package waveform provides control voltage profiles for driving the actuator.
package waveform

import "math"

// Waveform gives the control voltage at elapsed time t (seconds).
type Waveform interface {
	Voltage(t float64) float64
}

// Resetter is implemented by stateful waveforms that must be rewound before
// a new run.
type Resetter interface {
	Reset()
}

// Func adapts a plain function to Waveform.
type Func func(t float64) float64

func (f Func) Voltage(t float64) float64 { return f(t) }

type Constant float64

func (c Constant) Voltage(float64) float64 { return float64(c) }

// rise is a parabola-to-line profile from 0 to peak over duration. The first
// blend fraction is parabolic, the rest linear, with continuous slope.
func rise(t, duration, blend, peak float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= duration:
		return peak
	}
	if blend <= 0 || blend > 1 {
		return peak * t / duration
	}
	tb := blend * duration
	accel := peak / (tb * (duration - tb/2))
	if t < tb {
		return 0.5 * accel * t * t
	}
	return 0.5*accel*tb*tb + accel*tb*(t-tb)
}

// Ramp rises from 0 to Peak over RiseTime, then falls back to 0 over FallTime
// along the mirrored profile and holds there.
type Ramp struct {
	Peak     float64
	RiseTime float64
	FallTime float64
	Blend    float64
}

func (r Ramp) Voltage(t float64) float64 {
	if t < r.RiseTime {
		return rise(t, r.RiseTime, r.Blend, r.Peak)
	}
	tau := t - r.RiseTime
	if tau >= r.FallTime {
		return 0
	}
	return rise(r.FallTime-tau, r.FallTime, r.Blend, r.Peak)
}

// Reference is the single 850 V stroke used as the standard test drive:
// 480 us rise, then decay to zero by 1 ms.
func Reference() Ramp {
	return Ramp{Peak: 850, RiseTime: 480e-6, FallTime: 520e-6, Blend: 0.25}
}

// Sawtooth repeats a slow Ramp-style rise over Duty*Period and a fast linear
// fall over the rest of the period. This is the usual stick-slip drive.
type Sawtooth struct {
	Peak   float64
	Period float64
	Duty   float64
	Blend  float64
}

func (s Sawtooth) Voltage(t float64) float64 {
	if s.Period <= 0 || t < 0 {
		return 0
	}
	tau := math.Mod(t, s.Period)
	up := s.Duty * s.Period
	if tau < up {
		return rise(tau, up, s.Blend, s.Peak)
	}
	down := s.Period - up
	if down <= 0 {
		return s.Peak
	}
	return s.Peak * (1 - (tau-up)/down)
}

// Triangle is a symmetric triangle wave starting at 0.
type Triangle struct {
	Peak   float64
	Period float64
}

func (w Triangle) Voltage(t float64) float64 {
	if w.Period <= 0 || t < 0 {
		return 0
	}
	phase := math.Mod(t, w.Period) / w.Period
	if phase < 0.5 {
		return w.Peak * 2 * phase
	}
	return w.Peak * 2 * (1 - phase)
}

// SlewLimited follows Source but never changes faster than SlewRate volts per
// second, starting from 0 V at t=0. It keeps the last output, so one instance
// serves one run.
type SlewLimited struct {
	Source   Waveform
	SlewRate float64

	last  float64
	lastT float64
}

func NewSlewLimited(src Waveform, rate float64) *SlewLimited {
	return &SlewLimited{Source: src, SlewRate: rate}
}

func (w *SlewLimited) Voltage(t float64) float64 {
	target := w.Source.Voltage(t)
	limit := w.SlewRate * math.Abs(t-w.lastT)
	diff := target - w.last
	if math.Abs(diff) > limit {
		diff = math.Copysign(limit, diff)
	}
	w.last += diff
	w.lastT = t
	return w.last
}

func (w *SlewLimited) Reset() {
	w.last, w.lastT = 0, 0
	if r, ok := w.Source.(Resetter); ok {
		r.Reset()
	}
}
