// Package viz draws the animated scatterplot in the terminal.
//
// [App] is a Bubble Tea model around an engine: points are rasterized onto a
// Braille [Canvas] in category colors from the active theme, with axes, a
// year label, a play/pause button and a side panel.
//
// # Key Bindings
//
//	Space - Play/pause
//	T     - Cycle color themes
//	?     - Toggle full help
//	Q     - Quit
//
// Moving the mouse over a point shows its name; clicking the button in the
// top left corner toggles playback.
package viz
