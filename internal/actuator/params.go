package actuator

import (
	"fmt"
	"math"
)

// LockPolicy selects what happens to the slider velocity on a static step.
type LockPolicy string

const (
	// LockSnap sets the slider velocity to the piezo velocity before any
	// force is applied on a static step.
	LockSnap LockPolicy = "snap"
	// LockFree leaves the slider velocity untouched on static steps.
	LockFree LockPolicy = "free"
)

// GravityPolicy selects where the gravity term enters a step.
type GravityPolicy string

const (
	// GravityIndependent adds dt*g to both velocities after the control force.
	GravityIndependent GravityPolicy = "independent"
	// GravityInBalance folds m*g into the control force of each body, so it
	// takes part in the static friction test.
	GravityInBalance GravityPolicy = "balance"
)

// Reference values of the attocube-style positioner used throughout the tests.
const (
	DefaultPiezoMass                = 3.06e-3
	DefaultSliderMass               = 8.94e-3
	DefaultPiezoStiffness           = 1.47e9
	DefaultQualityFactor            = 1000.0
	DefaultPiezoConstant            = 4.8e-10
	DefaultNormalForce              = 2.22
	DefaultCoefficientStatic        = 0.5
	DefaultCoefficientKinetic       = 0.4
	DefaultKineticVelocityThreshold = 100e-6
)

// Params holds the physical constants of one actuator. It is passed by value
// and never modified by the engine.
type Params struct {
	PiezoMass                float64       `yaml:"piezo_mass" json:"piezo_mass"`
	SliderMass               float64       `yaml:"slider_mass" json:"slider_mass"`
	PiezoStiffness           float64       `yaml:"piezo_stiffness" json:"piezo_stiffness"`
	QualityFactor            float64       `yaml:"quality_factor" json:"quality_factor"`
	PiezoConstant            float64       `yaml:"piezo_constant" json:"piezo_constant"`
	NormalForce              float64       `yaml:"normal_force" json:"normal_force"`
	CoefficientStatic        float64       `yaml:"coefficient_static" json:"coefficient_static"`
	CoefficientKinetic       float64       `yaml:"coefficient_kinetic" json:"coefficient_kinetic"`
	KineticVelocityThreshold float64       `yaml:"kinetic_velocity_threshold" json:"kinetic_velocity_threshold"`
	GravityAcceleration      float64       `yaml:"gravity_acceleration" json:"gravity_acceleration"`
	Lock                     LockPolicy    `yaml:"lock,omitempty" json:"lock,omitempty"`
	Gravity                  GravityPolicy `yaml:"gravity,omitempty" json:"gravity,omitempty"`
}

func DefaultParams() Params {
	return Params{
		PiezoMass:                DefaultPiezoMass,
		SliderMass:               DefaultSliderMass,
		PiezoStiffness:           DefaultPiezoStiffness,
		QualityFactor:            DefaultQualityFactor,
		PiezoConstant:            DefaultPiezoConstant,
		NormalForce:              DefaultNormalForce,
		CoefficientStatic:        DefaultCoefficientStatic,
		CoefficientKinetic:       DefaultCoefficientKinetic,
		KineticVelocityThreshold: DefaultKineticVelocityThreshold,
		Lock:                     LockSnap,
		Gravity:                  GravityIndependent,
	}
}

// Validate reports the first malformed field. A kinetic coefficient above the
// static one is accepted.
func (p Params) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"piezo_mass", p.PiezoMass},
		{"slider_mass", p.SliderMass},
		{"piezo_stiffness", p.PiezoStiffness},
		{"quality_factor", p.QualityFactor},
	}
	for _, f := range positive {
		if err := finite(f.name, f.value); err != nil {
			return err
		}
		if f.value <= 0 {
			return &ParamError{Field: f.name, Value: f.value, Reason: "must be positive"}
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"normal_force", p.NormalForce},
		{"coefficient_static", p.CoefficientStatic},
		{"coefficient_kinetic", p.CoefficientKinetic},
		{"kinetic_velocity_threshold", p.KineticVelocityThreshold},
	}
	for _, f := range nonNegative {
		if err := finite(f.name, f.value); err != nil {
			return err
		}
		if f.value < 0 {
			return &ParamError{Field: f.name, Value: f.value, Reason: "must not be negative"}
		}
	}

	if err := finite("piezo_constant", p.PiezoConstant); err != nil {
		return err
	}
	if err := finite("gravity_acceleration", p.GravityAcceleration); err != nil {
		return err
	}

	switch p.Lock {
	case "", LockSnap, LockFree:
	default:
		return fmt.Errorf("%w: unknown lock policy %q", ErrInvalidParams, p.Lock)
	}
	switch p.Gravity {
	case "", GravityIndependent, GravityInBalance:
	default:
		return fmt.Errorf("%w: unknown gravity policy %q", ErrInvalidParams, p.Gravity)
	}
	return nil
}

func (p Params) snaps() bool {
	return p.Lock != LockFree
}

func (p Params) gravityInBalance() bool {
	return p.Gravity == GravityInBalance
}

// StaticLimit is the largest piezo force the static contact can hold.
func (p Params) StaticLimit() float64 {
	return p.NormalForce * p.CoefficientStatic
}

// KineticForce is the magnitude of the sliding Coulomb force.
func (p Params) KineticForce() float64 {
	return p.NormalForce * p.CoefficientKinetic
}

// ResonanceFrequency returns the free piezo resonance in Hz.
func (p Params) ResonanceFrequency() float64 {
	return math.Sqrt(p.PiezoStiffness/p.PiezoMass) / (2 * math.Pi)
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ParamError{Field: name, Value: v, Reason: "must be finite"}
	}
	return nil
}
