package actuator

// Energy is the mechanical energy of the system: kinetic energy of both bodies
// plus the elastic energy of the piezo spring measured from the target
// displacement of the present control voltage.
func Energy(s State, p Params) float64 {
	stretch := s.PiezoPosition - p.PiezoConstant*s.ControlVoltage
	return 0.5*p.PiezoMass*s.PiezoVelocity*s.PiezoVelocity +
		0.5*p.SliderMass*s.SliderVelocity*s.SliderVelocity +
		0.5*p.PiezoStiffness*stretch*stretch
}

// ShadowEnergy is Energy corrected by -dt*k*x*v/2. For a free piezo at constant
// voltage this is the quantity semi-implicit Euler conserves exactly, so it
// only decreases under damping, while Energy oscillates at order omega*dt.
func ShadowEnergy(s State, p Params, dt float64) float64 {
	stretch := s.PiezoPosition - p.PiezoConstant*s.ControlVoltage
	return Energy(s, p) - 0.5*dt*p.PiezoStiffness*stretch*s.PiezoVelocity
}
