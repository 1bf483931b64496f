package actuator

import "math"

// FrictionForce returns the kinetic Coulomb force acting on the slider. The
// piezo receives the opposite force. A slider lagging the piezo is pushed
// forward; equal velocities give zero force.
func FrictionForce(s State, p Params) float64 {
	delta := s.RelativeVelocity()
	switch {
	case delta < 0:
		return p.KineticForce()
	case delta > 0:
		return -p.KineticForce()
	default:
		return 0
	}
}

// ResolveFriction returns the friction force on the piezo and on the slider
// for a kinetic step of length dt.
//
// Applying the full Coulomb impulse may carry the relative velocity through
// zero, which sliding friction cannot do. When the tentative update flips the
// sign, the force is scaled by |before| / (|before| + |after|) so the relative
// velocity lands on zero instead.
func ResolveFriction(s State, p Params, dt float64) (piezo, slider float64) {
	f := FrictionForce(s, p)
	if f == 0 {
		return 0, 0
	}

	before := s.RelativeVelocity()
	after := (s.SliderVelocity + dt*f/p.SliderMass) - (s.PiezoVelocity - dt*f/p.PiezoMass)

	if crossed(before, after) {
		// crossed implies a non-zero denominator.
		if den := math.Abs(before) + math.Abs(after); den > 0 {
			f *= math.Abs(before) / den
		}
	}
	return -f, f
}

func crossed(before, after float64) bool {
	return (before > 0 && after < 0) || (before < 0 && after > 0)
}
