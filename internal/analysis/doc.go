// Package analysis extracts stick-slip structure from recorded traces.
//
// The package works on [sim.Sample] slices as produced by a run or loaded
// from storage:
//
//   - [Segments]: contiguous stick and slip intervals
//   - [StepStats]: per-cycle slider advance and its spread
//   - [NewPhasePortrait]: two-field portrait, rendered as ASCII
//
// # Example
//
//	stats := analysis.StepStats(result.Samples, drivePeriod)
//	fmt.Printf("%.1f nm/cycle\n", stats.StepMean*1e9)
package analysis
