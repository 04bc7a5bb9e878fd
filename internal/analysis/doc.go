// Package analysis inspects simulations after the fact.
//
//   - [PowerSpectrum]: spectrum of a diagnostics series (energy oscillation)
//   - [ThetaSweep]: Barnes-Hut accuracy and cost against direct summation
//   - [RadialProfile]: mass and rotation curve around a center
//   - [ScatterToASCII]: quick terminal scatter plot
//
// # Accuracy
//
// Relative error grows and node visits shrink as theta grows:
//
//	points := analysis.ThetaSweep(ps, opts, bounds, []float64{0, 0.3, 0.6, 1}, 200)
//	for _, p := range points {
//	    fmt.Printf("%.2f %.1f %.2e\n", p.Theta, p.MeanVisits, p.MeanError)
//	}
package analysis
