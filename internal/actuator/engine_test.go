package actuator_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/waveform"
)

const dt = 1e-6

// unitParams gives forces that are exact in binary floating point.
func unitParams() actuator.Params {
	return actuator.Params{
		PiezoMass:                1,
		SliderMass:               1,
		PiezoStiffness:           2,
		QualityFactor:            1,
		PiezoConstant:            1,
		NormalForce:              1,
		CoefficientStatic:        1,
		CoefficientKinetic:       0.5,
		KineticVelocityThreshold: 1,
	}
}

func run(p actuator.Params, drive waveform.Waveform, steps int) ([]actuator.State, []actuator.Mode) {
	eng, err := actuator.New(p)
	Expect(err).NotTo(HaveOccurred())

	s := eng.Create()
	states := make([]actuator.State, 0, steps)
	modes := make([]actuator.Mode, 0, steps)
	for i := 0; i < steps; i++ {
		modes = append(modes, eng.Step(&s, drive.Voltage(float64(i)*dt), dt))
		states = append(states, s)
	}
	return states, modes
}

var _ = Describe("New", func() {
	It("accepts the reference parameters", func() {
		eng, err := actuator.New(actuator.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
		Expect(eng.Create()).To(Equal(actuator.State{}))
	})

	It("accepts a kinetic coefficient above the static one", func() {
		p := actuator.DefaultParams()
		p.CoefficientKinetic = 0.9
		_, err := actuator.New(p)
		Expect(err).NotTo(HaveOccurred())
	})

	It("fills in default policies", func() {
		p := actuator.DefaultParams()
		p.Lock, p.Gravity = "", ""
		eng, err := actuator.New(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(eng.Params().Lock).To(Equal(actuator.LockSnap))
		Expect(eng.Params().Gravity).To(Equal(actuator.GravityIndependent))
	})

	DescribeTable("rejects malformed parameters",
		func(mutate func(*actuator.Params), field string) {
			p := actuator.DefaultParams()
			mutate(&p)
			_, err := actuator.New(p)
			Expect(err).To(MatchError(actuator.ErrInvalidParams))
			Expect(err.Error()).To(ContainSubstring(field))
		},
		Entry("negative piezo mass", func(p *actuator.Params) { p.PiezoMass = -1 }, "piezo_mass"),
		Entry("zero slider mass", func(p *actuator.Params) { p.SliderMass = 0 }, "slider_mass"),
		Entry("zero stiffness", func(p *actuator.Params) { p.PiezoStiffness = 0 }, "piezo_stiffness"),
		Entry("zero quality factor", func(p *actuator.Params) { p.QualityFactor = 0 }, "quality_factor"),
		Entry("negative normal force", func(p *actuator.Params) { p.NormalForce = -2 }, "normal_force"),
		Entry("negative threshold", func(p *actuator.Params) { p.KineticVelocityThreshold = -1 }, "kinetic_velocity_threshold"),
		Entry("NaN piezo constant", func(p *actuator.Params) { p.PiezoConstant = math.NaN() }, "piezo_constant"),
		Entry("unknown lock policy", func(p *actuator.Params) { p.Lock = "glue" }, "lock policy"),
		Entry("unknown gravity policy", func(p *actuator.Params) { p.Gravity = "up" }, "gravity policy"),
	)
})

var _ = Describe("Classify", func() {
	It("is kinetic when the relative speed exceeds the threshold", func() {
		p := actuator.DefaultParams()
		s := actuator.State{SliderVelocity: 2 * p.KineticVelocityThreshold}
		Expect(actuator.Classify(s, p)).To(Equal(actuator.Kinetic))

		s = actuator.State{PiezoVelocity: 2 * p.KineticVelocityThreshold}
		Expect(actuator.Classify(s, p)).To(Equal(actuator.Kinetic))
	})

	It("holds when the static force is exactly at the limit", func() {
		p := unitParams()
		s := actuator.State{ControlVoltage: 1}

		piezo, slider := actuator.ControlForces(s, p, actuator.Static)
		Expect(piezo).To(Equal(1.0))
		Expect(slider).To(Equal(1.0))
		Expect(actuator.Classify(s, p)).To(Equal(actuator.Static))

		p.CoefficientStatic = 0.99
		Expect(actuator.Classify(s, p)).To(Equal(actuator.Kinetic))
	})

	It("never returns to static as the relative speed grows", func() {
		p := actuator.DefaultParams()
		s := actuator.State{}
		seenKinetic := false
		for i := 0; i <= 400; i++ {
			s.SliderVelocity = float64(i) * p.KineticVelocityThreshold / 100
			mode := actuator.Classify(s, p)
			if seenKinetic {
				Expect(mode).To(Equal(actuator.Kinetic), "relative velocity %g", s.SliderVelocity)
			}
			if mode == actuator.Kinetic {
				seenKinetic = true
			}
			if s.SliderVelocity <= p.KineticVelocityThreshold {
				Expect(mode).To(Equal(actuator.Static))
			}
		}
		Expect(seenKinetic).To(BeTrue())
	})
})

var _ = Describe("ControlForces", func() {
	It("splits the static force by the other body's mass fraction", func() {
		p := actuator.DefaultParams()
		s := actuator.State{ControlVoltage: 100}
		f := actuator.ControlVoltageForce(s, p)

		piezo, slider := actuator.ControlForces(s, p, actuator.Static)
		total := p.PiezoMass + p.SliderMass
		Expect(piezo).To(BeNumerically("~", f*p.SliderMass/total, 1e-12))
		Expect(slider).To(BeNumerically("~", f*p.PiezoMass/total, 1e-12))
	})

	It("puts the whole kinetic force on the piezo", func() {
		p := actuator.DefaultParams()
		s := actuator.State{ControlVoltage: 100, PiezoVelocity: 1e-3}

		piezo, slider := actuator.ControlForces(s, p, actuator.Kinetic)
		want := actuator.ControlVoltageForce(s, p) + actuator.DampingForce(s, p, p.PiezoMass)
		Expect(piezo).To(Equal(want))
		Expect(slider).To(BeZero())
	})

	It("damps against the piezo velocity only", func() {
		p := actuator.DefaultParams()
		Expect(actuator.DampingForce(actuator.State{PiezoVelocity: 1}, p, p.PiezoMass)).To(BeNumerically("<", 0))
		Expect(actuator.DampingForce(actuator.State{SliderVelocity: 1}, p, p.PiezoMass)).To(BeZero())
	})

	It("adds the body weight when gravity is in the balance", func() {
		p := actuator.DefaultParams()
		p.Gravity = actuator.GravityInBalance
		p.GravityAcceleration = -9.81

		piezo, slider := actuator.ControlForces(actuator.State{}, p, actuator.Kinetic)
		Expect(piezo).To(BeNumerically("~", -9.81*p.PiezoMass, 1e-15))
		Expect(slider).To(BeNumerically("~", -9.81*p.SliderMass, 1e-15))
	})
})

var _ = Describe("ResolveFriction", func() {
	It("pushes a lagging slider forward", func() {
		p := actuator.DefaultParams()
		Expect(actuator.FrictionForce(actuator.State{PiezoVelocity: 1}, p)).To(Equal(p.KineticForce()))
		Expect(actuator.FrictionForce(actuator.State{SliderVelocity: 1}, p)).To(Equal(-p.KineticForce()))
		Expect(actuator.FrictionForce(actuator.State{PiezoVelocity: 1, SliderVelocity: 1}, p)).To(BeZero())
	})

	It("applies the full force when no crossing occurs", func() {
		p := actuator.DefaultParams()
		s := actuator.State{SliderVelocity: 1}
		piezo, slider := actuator.ResolveFriction(s, p, dt)
		Expect(slider).To(Equal(-p.KineticForce()))
		Expect(piezo).To(Equal(p.KineticForce()))
	})

	It("scales the force so the relative velocity stops at zero", func() {
		p := actuator.DefaultParams()
		s := actuator.State{SliderVelocity: 2e-4}
		piezo, slider := actuator.ResolveFriction(s, p, dt)

		Expect(math.Abs(slider)).To(BeNumerically("<", p.KineticForce()))
		Expect(piezo).To(Equal(-slider))

		s.PiezoVelocity += dt * piezo / p.PiezoMass
		s.SliderVelocity += dt * slider / p.SliderMass
		Expect(s.RelativeVelocity()).To(BeNumerically("~", 0, 1e-18))
	})

	It("never flips the sign of the relative velocity", func() {
		p := actuator.DefaultParams()
		rnd := rand.New(rand.NewSource(7))
		for i := 0; i < 5000; i++ {
			s := actuator.State{
				PiezoVelocity:  (rnd.Float64() - 0.5) * 2e-3,
				SliderVelocity: (rnd.Float64() - 0.5) * 2e-3,
			}
			step := dt * (1 + 9*rnd.Float64())
			before := s.RelativeVelocity()

			piezo, slider := actuator.ResolveFriction(s, p, step)
			s.PiezoVelocity += step * piezo / p.PiezoMass
			s.SliderVelocity += step * slider / p.SliderMass
			after := s.RelativeVelocity()

			tol := 1e-12 * (math.Abs(s.PiezoVelocity) + math.Abs(s.SliderVelocity) + math.Abs(before))
			if before*after < 0 {
				Expect(math.Abs(after)).To(BeNumerically("<=", tol), "before %g after %g", before, after)
			}
		}
	})
})

var _ = Describe("Step", func() {
	It("locks the slider to the piezo on a static step", func() {
		p := actuator.DefaultParams()
		s := actuator.State{SliderVelocity: p.KineticVelocityThreshold / 100}

		Expect(actuator.Step(&s, p, 0, dt)).To(Equal(actuator.Static))
		Expect(s.SliderVelocity).To(Equal(s.PiezoVelocity))
		Expect(s.SliderPosition).To(BeZero())
	})

	It("leaves the slider free under LockFree", func() {
		p := actuator.DefaultParams()
		p.Lock = actuator.LockFree
		v := p.KineticVelocityThreshold / 100
		s := actuator.State{SliderVelocity: v}

		Expect(actuator.Step(&s, p, 0, dt)).To(Equal(actuator.Static))
		Expect(s.SliderVelocity).To(Equal(v))
		Expect(s.SliderPosition).To(BeNumerically("~", v*dt, 1e-24))
	})

	It("stops a sliding slider without reversing it", func() {
		p := actuator.DefaultParams()
		s := actuator.State{SliderVelocity: 2e-4}
		momentum := p.SliderMass * s.SliderVelocity

		Expect(actuator.Step(&s, p, 0, dt)).To(Equal(actuator.Kinetic))
		Expect(s.RelativeVelocity()).To(BeNumerically("~", 0, 1e-18))
		Expect(p.PiezoMass*s.PiezoVelocity + p.SliderMass*s.SliderVelocity).To(BeNumerically("~", momentum, 1e-18))
	})

	It("applies independent gravity to both bodies", func() {
		p := actuator.DefaultParams()
		p.GravityAcceleration = -9.81
		s := actuator.State{}

		Expect(actuator.Step(&s, p, 0, dt)).To(Equal(actuator.Static))
		Expect(s.PiezoVelocity).To(BeNumerically("~", -9.81*dt, 1e-18))
		Expect(s.SliderVelocity).To(BeNumerically("~", -9.81*dt, 1e-18))
	})

	It("integrates positions with the updated velocities", func() {
		p := actuator.DefaultParams()
		s := actuator.State{}
		actuator.Step(&s, p, 500, dt)

		Expect(s.PiezoVelocity).To(BeNumerically(">", 0))
		Expect(s.PiezoPosition).To(Equal(dt * s.PiezoVelocity))
		Expect(s.SliderPosition).To(Equal(dt * s.SliderVelocity))
	})

	It("does not create energy without friction or gravity", func() {
		p := actuator.DefaultParams()
		p.CoefficientStatic = 0
		p.CoefficientKinetic = 0
		p.KineticVelocityThreshold = 0

		eng, err := actuator.New(p)
		Expect(err).NotTo(HaveOccurred())

		const fine = 1e-8
		s := eng.Create()
		s.ControlVoltage = 850
		start := actuator.Energy(s, p)
		initial := actuator.ShadowEnergy(s, p, fine)
		for i := 0; i < 20000; i++ {
			Expect(eng.Step(&s, 850, fine)).To(Equal(actuator.Kinetic))
			Expect(actuator.ShadowEnergy(s, p, fine)).To(BeNumerically("<=", initial*(1+1e-9)), "step %d", i)
		}
		Expect(actuator.Energy(s, p)).To(BeNumerically("<", start))
		Expect(s.SliderPosition).To(BeZero())
	})

	It("is deterministic", func() {
		drive := waveform.Reference()
		a, am := run(actuator.DefaultParams(), drive, 1000)
		b, bm := run(actuator.DefaultParams(), drive, 1000)
		Expect(a).To(Equal(b))
		Expect(am).To(Equal(bm))
	})

	It("stays bounded on the reference drive", func() {
		states, modes := run(actuator.DefaultParams(), waveform.Reference(), 1000)
		Expect(modes[0]).To(Equal(actuator.Static))

		for i, s := range states {
			Expect(s.IsValid()).To(BeTrue(), "step %d", i)
			Expect(math.Abs(s.PiezoPosition)).To(BeNumerically("<", 500e-9))
			Expect(math.Abs(s.SliderPosition)).To(BeNumerically("<", 500e-9))
			Expect(math.Abs(s.PiezoVelocity)).To(BeNumerically("<", 0.1))
		}
		Expect(states[479].ControlVoltage).To(BeNumerically("~", 850, 5))
	})

	// Recorded values for this engine. The figures usually quoted for this
	// drive (piezo 14.0 nm at 3101 um/s, slider at rest at 0 nm) are not
	// reached by this model.
	It("reproduces the recorded reference trajectory", func() {
		states, modes := run(actuator.DefaultParams(), waveform.Reference(), 1000)

		kinetic := 0
		for _, m := range modes {
			if m == actuator.Kinetic {
				kinetic++
			}
		}
		Expect(kinetic).To(Equal(23))

		end := states[999]
		Expect(end.PiezoPosition).To(BeNumerically("~", -0.03e-9, 0.01e-9))
		Expect(end.SliderPosition).To(BeNumerically("~", 21.94e-9, 0.01e-9))
		Expect(end.PiezoVelocity).To(BeNumerically("~", 12.3e-6, 0.1e-6))
		Expect(end.SliderVelocity).To(BeNumerically("~", -3.1e-6, 0.1e-6))
	})

	// Control forces act before friction, so on a kinetic step the spring
	// alone may carry the relative velocity through zero. Friction must not.
	DescribeTable("never flips the relative velocity in the friction stage",
		func(drive waveform.Waveform, steps int, wantControlFlips bool) {
			p := actuator.DefaultParams()
			s := actuator.State{}
			kinetic, controlFlips := 0, 0

			for i := 0; i < steps; i++ {
				v := drive.Voltage(float64(i) * dt)
				entry := s.RelativeVelocity()

				pre := s
				pre.ControlVoltage = v
				mode := actuator.Classify(pre, p)
				if mode == actuator.Kinetic {
					fp, fs := actuator.ControlForces(pre, p, mode)
					pre.PiezoVelocity += dt * fp / p.PiezoMass
					pre.SliderVelocity += dt * fs / p.SliderMass
				}
				beforeFriction := pre.RelativeVelocity()

				Expect(actuator.Step(&s, p, v, dt)).To(Equal(mode))
				if mode != actuator.Kinetic {
					continue
				}
				kinetic++
				if entry*beforeFriction < 0 {
					controlFlips++
				}

				after := s.RelativeVelocity()
				if beforeFriction*after < 0 {
					tol := 1e-12 * (math.Abs(s.PiezoVelocity) + math.Abs(s.SliderVelocity) + math.Abs(beforeFriction))
					Expect(math.Abs(after)).To(BeNumerically("<=", tol),
						"step %d: %g before friction, %g after", i, beforeFriction, after)
				}
			}

			Expect(kinetic).To(BeNumerically(">", 0))
			if wantControlFlips {
				Expect(controlFlips).To(BeNumerically(">", 0))
			}
		},
		Entry("reference ramp", waveform.Reference(), 1000, true),
		Entry("sawtooth", waveform.Sawtooth{Peak: 850, Period: 200e-6, Duty: 0.9, Blend: 0.25}, 20000, false),
	)
})

var _ = Describe("Params", func() {
	It("reports the free piezo resonance", func() {
		p := unitParams()
		Expect(p.ResonanceFrequency()).To(BeNumerically("~", math.Sqrt2/(2*math.Pi), 1e-15))
	})
})
