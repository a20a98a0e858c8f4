// Package viz renders particle populations in the terminal and as SVG.
//
// Everything here reads simulations through Snapshot only:
//
//   - [Canvas]: Braille-based pixel canvas with one color class per cell
//   - [Viewport]: world-to-screen mapping, fixed or following the population
//   - [Model]: Bubble Tea live view with a kinetic energy chart
//   - [SnapshotToSVG]: one circle per particle, colored by class
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Restart with the next seed
//	F     - Toggle following the population
//	T     - Cycle color themes
//	+/-   - Ticks per frame
//	?     - Show help overlay
//	Q     - Quit
package viz
