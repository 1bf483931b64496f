// Package viz provides the live terminal view of a running actuator.
//
// [Model] is a Bubble Tea model that advances a [sim.Session] on every tick
// and draws the piezo and slider on a Braille [Canvas], with the recent
// positions plotted underneath.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the zero state
//	+/-   - Double/halve steps per frame
//	Q     - Quit
package viz
