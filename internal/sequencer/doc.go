// Package sequencer plays an ordered list of scramble steps one line at a
// time on a cooperative frame loop.
//
// The [Sequencer] moves between four phases:
//
//	Idle -> Running(line 0..N-1) -> Settled (cursor visible)
//	Idle -> Static                (reduced motion)
//
// [Sequencer.Start] is the only way into Running and restarts from line 0
// under a new run ID when called mid-run. [Sequencer.Stop] returns to Idle
// and leaves the displayed text alone.
//
// # Frames
//
// Work is never done on a goroutine of its own. Each line animation and the
// timeline that starts them are callbacks queued on a [FrameScheduler]; the
// owner calls [FrameLoop.Tick] once per display refresh. Timing is derived
// from the tick timestamp so frame rate does not change total duration.
//
// Every callback captures the run ID current when it was queued and
// returns without side effects once the sequencer has moved on, so a
// superseded run never writes to the displayed state.
package sequencer
