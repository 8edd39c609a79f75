// Package viz draws the particle plate in the terminal.
//
// [Canvas] packs 2x4 braille dots per cell. [Camera] projects the plate
// and the lifted particles onto it. [Model] is the Bubble Tea program:
// two keyboard rows toggle notes, every tick steps the engine and the
// sidebar shows held notes, their modes and a smoothed lift meter.
//
// # Keys
//
//	z s x d c ... m   lower row, one octave from the base note
//	q 2 w 3 e ... i   upper row, starting one octave up
//	space             release all notes
//	←/→               shift the keyboard by an octave
//	enter             pause
//	↑/↓ [ ] - =       tilt, spin and zoom the camera
//	backspace         scatter the particles again
//	esc, ctrl+c       quit
package viz
