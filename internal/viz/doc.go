// Package viz renders a sequencer in the terminal.
//
// [Player] is a Bubble Tea model. It drives a sequencer.FrameLoop from its
// tick messages and treats terminal focus as visibility: the first render
// and every focus regained after a blur replay the sequence.
//
//   - [Player]: the model, built with [NewPlayer]
//   - [ReloadMsg]: swaps in new steps, e.g. from a watched config file
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	R/Enter/Space - Replay
//	S             - Stop
//	T             - Cycle color themes
//	Q/Esc         - Quit
package viz
