// Package viz draws simulations in the terminal.
//
//   - [Model]: Bubble Tea live view driving a simulator
//   - [Canvas]: braille dot grid with per-cell speed heat and overlay marks
//   - [Printer]: plain observer that redraws frames during headless runs
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Single step while paused
//	R     - Reset to the initial particles
//	←/→   - Select the traced particle
//	B     - Toggle the traversal box overlay
//	T     - Cycle color themes
//	Q     - Quit
//
// # Overlay
//
// The overlay outlines every node the traced particle's traversal used as
// an aggregate mass in the last step: small boxes near the particle,
// large ones far away.
package viz
