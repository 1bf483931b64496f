package metrics

import (
	"math"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/sim"
)

// KineticFraction is the share of steps spent sliding.
type KineticFraction struct {
	kinetic int
	samples int
}

func NewKineticFraction() *KineticFraction { return &KineticFraction{} }

func (k *KineticFraction) Name() string { return "kinetic_fraction" }

func (k *KineticFraction) Observe(s sim.Sample) {
	k.samples++
	if s.Mode == actuator.Kinetic {
		k.kinetic++
	}
}

func (k *KineticFraction) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return float64(k.kinetic) / float64(k.samples)
}

func (k *KineticFraction) Reset() {
	k.kinetic = 0
	k.samples = 0
}

// SlipEvents counts transitions from static to kinetic. A run that starts
// kinetic counts that as one slip.
type SlipEvents struct {
	count int
	prev  actuator.Mode
}

func NewSlipEvents() *SlipEvents { return &SlipEvents{} }

func (e *SlipEvents) Name() string { return "slip_events" }

func (e *SlipEvents) Observe(s sim.Sample) {
	if s.Mode == actuator.Kinetic && e.prev == actuator.Static {
		e.count++
	}
	e.prev = s.Mode
}

func (e *SlipEvents) Value() float64 { return float64(e.count) }

func (e *SlipEvents) Reset() {
	e.count = 0
	e.prev = actuator.Static
}

// NetDisplacement is the last observed slider position.
type NetDisplacement struct {
	position float64
}

func NewNetDisplacement() *NetDisplacement { return &NetDisplacement{} }

func (n *NetDisplacement) Name() string         { return "net_displacement" }
func (n *NetDisplacement) Observe(s sim.Sample) { n.position = s.State.SliderPosition }
func (n *NetDisplacement) Value() float64       { return n.position }
func (n *NetDisplacement) Reset()               { n.position = 0 }

// PeakVelocity is the largest slider speed seen.
type PeakVelocity struct {
	peak float64
}

func NewPeakVelocity() *PeakVelocity { return &PeakVelocity{} }

func (p *PeakVelocity) Name() string { return "peak_slider_velocity" }

func (p *PeakVelocity) Observe(s sim.Sample) {
	p.peak = math.Max(p.peak, math.Abs(s.State.SliderVelocity))
}

func (p *PeakVelocity) Value() float64 { return p.peak }
func (p *PeakVelocity) Reset()         { p.peak = 0 }

// Default returns a fresh set of the standard run metrics.
func Default(p actuator.Params) []sim.Metric {
	return []sim.Metric{
		NewEnergy(p),
		NewEnergyGain(p),
		NewControlEffort(),
		NewKineticFraction(),
		NewSlipEvents(),
		NewNetDisplacement(),
		NewPeakVelocity(),
	}
}
