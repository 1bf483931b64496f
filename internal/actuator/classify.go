package actuator

import "math"

// Classify derives the friction regime for the next step.
//
// A relative speed above the kinetic threshold is always kinetic. Below it the
// contact holds unless the piezo force under the static split exceeds the
// static friction limit; a force exactly at the limit still holds.
func Classify(s State, p Params) Mode {
	if math.Abs(s.RelativeVelocity()) > p.KineticVelocityThreshold {
		return Kinetic
	}
	piezo, _ := ControlForces(s, p, Static)
	if math.Abs(piezo) > p.StaticLimit() {
		return Kinetic
	}
	return Static
}
