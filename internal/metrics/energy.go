package metrics

import (
	"math"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/sim"
)

// Energy is the mean mechanical energy over a run.
type Energy struct {
	name        string
	params      actuator.Params
	samples     int
	totalEnergy float64
}

func NewEnergy(p actuator.Params) *Energy {
	return &Energy{
		name:   "energy",
		params: p,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s sim.Sample) {
	e.totalEnergy += actuator.Energy(s.State, e.params)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyGain is the largest rise of mechanical energy above the first
// observation, relative to it. A passive, frictionless run keeps it near
// zero; friction and drive work move it.
type EnergyGain struct {
	name          string
	params        actuator.Params
	initialEnergy float64
	maxGain       float64
	samples       int
}

func NewEnergyGain(p actuator.Params) *EnergyGain {
	return &EnergyGain{
		name:   "energy_gain",
		params: p,
	}
}

func (e *EnergyGain) Name() string { return e.name }

func (e *EnergyGain) Observe(s sim.Sample) {
	energy := actuator.Energy(s.State, e.params)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		gain := (energy - e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxGain = math.Max(e.maxGain, gain)
	}
}

func (e *EnergyGain) Value() float64 {
	return e.maxGain
}

func (e *EnergyGain) Reset() {
	e.initialEnergy = 0
	e.maxGain = 0
	e.samples = 0
}
