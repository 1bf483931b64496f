// Package actuator implements the stick-slip dynamics of a piezo element
// elastically coupled to a slider mass through Coulomb friction.
//
// The interface between the two bodies is in one of two regimes:
//
//   - [Static]: the slider is locked to the piezo and both move rigidly.
//   - [Kinetic]: the slider slides and only the kinetic Coulomb force couples it.
//
// The regime is never stored. Every call to [Step] re-derives it from the
// current velocities and a static force balance (see [Classify]), then applies
// forces in a fixed order and integrates with semi-implicit Euler.
//
// # Example
//
//	eng, err := actuator.New(actuator.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	s := eng.Create()
//	for i := 0; i < 1000; i++ {
//	    mode := eng.Step(&s, drive.Voltage(float64(i)*dt), dt)
//	    _ = mode
//	}
//
// # Thread Safety
//
// An [Engine] is immutable and may be shared. A [State] is owned by the loop
// that steps it and must not be stepped concurrently.
package actuator
