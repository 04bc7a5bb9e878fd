// Package dynamo provides the core primitives shared by the Barnes-Hut
// simulation packages.
//
// The package defines the data every other package passes around:
//
//   - [Particle]: a point mass with position and velocity
//   - [Rect]: an axis-aligned region with half-open containment
//   - [Params]: the tunables of one simulation (dt, G, theta, damping, ...)
//   - [Frame]: the read-only per-step snapshot handed to observers
//   - [Integrator], [Metric], [Observer]: extension points of the driver
//
// # Example
//
//	params := dynamo.DefaultParams()
//	params.Theta = 0.5
//	s, err := sim.New(particles, params, integrators.NewEuler())
//	result, err := s.Run(ctx, 1000)
//
// # Thread Safety
//
// Params and Rect are plain values. A particle slice must not be written
// while a step is running; observers receive their own copy in [Frame].
package dynamo
