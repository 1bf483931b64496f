package actuator

import "math"

// ControlVoltageForce is the spring force pulling the piezo toward the
// displacement commanded by the present control voltage.
func ControlVoltageForce(s State, p Params) float64 {
	return p.PiezoStiffness * (p.PiezoConstant*s.ControlVoltage - s.PiezoPosition)
}

// DampingForce is viscous damping in critical-damping units for the given
// engaged mass. Only the piezo velocity enters.
func DampingForce(s State, p Params, engagedMass float64) float64 {
	return -(1 / p.QualityFactor) * math.Sqrt(p.PiezoStiffness*engagedMass) * s.PiezoVelocity
}

// ControlForces returns the force applied to the piezo and to the slider for
// the given mode.
//
// In static mode the bodies move rigidly: the combined force is computed for
// the total mass and each body receives the other body's mass fraction. In
// kinetic mode the whole force acts on the piezo.
func ControlForces(s State, p Params, mode Mode) (piezo, slider float64) {
	f := ControlVoltageForce(s, p)

	if mode == Static {
		total := p.PiezoMass + p.SliderMass
		f += DampingForce(s, p, total)
		if p.gravityInBalance() {
			f += p.GravityAcceleration * total
		}
		return f * p.SliderMass / total, f * p.PiezoMass / total
	}

	f += DampingForce(s, p, p.PiezoMass)
	if p.gravityInBalance() {
		return f + p.GravityAcceleration*p.PiezoMass, p.GravityAcceleration * p.SliderMass
	}
	return f, 0
}
