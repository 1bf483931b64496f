package actuator

// Engine binds a validated parameter set. It holds no mutable state.
type Engine struct {
	params Params
}

// New validates p and returns an engine for it.
func New(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Lock == "" {
		p.Lock = LockSnap
	}
	if p.Gravity == "" {
		p.Gravity = GravityIndependent
	}
	return &Engine{params: p}, nil
}

func (e *Engine) Params() Params { return e.params }

// Create returns a zeroed state for a new run.
func (e *Engine) Create() State { return State{} }

// Step advances s by dt under the engine parameters.
func (e *Engine) Step(s *State, voltage, dt float64) Mode {
	return Step(s, e.params, voltage, dt)
}

// Step advances s in place by one time step and returns the mode used.
//
// The order is fixed: classify, lock the slider if static, apply the control
// force, apply gravity, apply kinetic friction, then move both bodies with the
// updated velocities. p is assumed valid.
func Step(s *State, p Params, voltage, dt float64) Mode {
	s.ControlVoltage = voltage

	mode := Classify(*s, p)
	if mode == Static && p.snaps() {
		s.SliderVelocity = s.PiezoVelocity
	}

	fp, fs := ControlForces(*s, p, mode)
	s.PiezoVelocity += dt * fp / p.PiezoMass
	s.SliderVelocity += dt * fs / p.SliderMass

	if p.GravityAcceleration != 0 && !p.gravityInBalance() {
		s.PiezoVelocity += dt * p.GravityAcceleration
		s.SliderVelocity += dt * p.GravityAcceleration
	}

	if mode == Kinetic {
		fp, fs = ResolveFriction(*s, p, dt)
		s.PiezoVelocity += dt * fp / p.PiezoMass
		s.SliderVelocity += dt * fs / p.SliderMass
	}

	s.PiezoPosition += dt * s.PiezoVelocity
	s.SliderPosition += dt * s.SliderVelocity
	return mode
}
