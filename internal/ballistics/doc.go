// Package ballistics runs the internal-ballistics time loop of a solid
// rocket motor.
//
// Each step sums the burn area of every burning grain, turns the resulting
// Kn into chamber pressure and burn rate through a [Correlation], regresses
// the grains, and records a [Snapshot] with mass flow, port-to-throat ratios,
// L*, system mass, center of gravity and thrust. The loop ends when no grain
// is burning.
//
//   - [Correlation]: Kn to pressure and burn rate
//   - [Simulator]: owns the grains for one run and steps them to burnout
//   - [Result]: the append-only snapshot trace plus warnings and metrics
//   - [Summary]: impulse, ISP, mass fraction and motor class of a trace
//
// # Example
//
//	grain, _ := motor.NewCylindrical(4, 1.5, 0.5, 2)
//	nozzle, _ := motor.NewNozzle(0.25, 1.0, 0.6, 1.4, 1)
//	casing, _ := motor.NewCase(0.5, 1.75, 6)
//	sim := ballistics.New([]motor.Geometry{grain}, nozzle, casing, ballistics.StockFit())
//	result, _ := sim.Run(ctx, ballistics.Config{Dt: 0.01, Density: 0.06})
//	summary := ballistics.Summarize(result)
//
// # Thread Safety
//
// A Simulator mutates its grains and runs exactly once. Build fresh grains
// (see [motor.Geometry.Clone]) for every run. With [Config.Parallel] the
// per-grain work of a step is spread over goroutines and combined in grain
// order, so results are identical to a serial run.
package ballistics
