// Package viz is the terminal viewer for SPH simulations.
//
// [Model] is a Bubble Tea program that steps a live [sph.Simulation] and
// draws its particles on a braille [Canvas]. [NewMenu] wraps it with a
// preset picker. Parameters can be edited between steps through the
// inspector panel, built from [ParameterFields].
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	N       - Single step while paused
//	R       - Reset to the initial particles and parameters
//	Tab     - Select next parameter
//	Up/K    - Increase parameter (+5%)
//	Down/J  - Decrease parameter (-5%)
//	W/A/S/D - Pan
//	+/-     - Zoom
//	X/Y     - Rotate (3d builds)
//	G       - Toggle grid lines
//	T       - Cycle color themes
//	?       - Help overlay
package viz
