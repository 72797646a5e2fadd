package sequencer

import "time"

// FrameScheduler queues a callback for the next display refresh.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time))
}

// FrameLoop is a cooperative frame queue driven by its owner. It is not
// safe for concurrent use; the Bubble Tea update loop or the headless
// tracer is the only caller.
type FrameLoop struct {
	pending []func(time.Time)
	frames  uint64
}

func NewFrameLoop() *FrameLoop {
	return &FrameLoop{pending: make([]func(time.Time), 0, 8)}
}

func (l *FrameLoop) RequestFrame(fn func(now time.Time)) {
	l.pending = append(l.pending, fn)
}

// Tick runs every callback queued before the call. Callbacks requested
// while ticking run on the next Tick. It returns the number that ran.
func (l *FrameLoop) Tick(now time.Time) int {
	batch := l.pending
	if len(batch) == 0 {
		return 0
	}
	l.pending = make([]func(time.Time), 0, len(batch))
	l.frames++
	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}

func (l *FrameLoop) Pending() int { return len(l.pending) }

// Frames counts ticks that ran at least one callback.
func (l *FrameLoop) Frames() uint64 { return l.frames }

// Drain ticks at the given interval until the queue empties or limit
// ticks have run, and returns the time of the last tick.
func (l *FrameLoop) Drain(start time.Time, interval time.Duration, limit int) time.Time {
	now := start
	for i := 0; i < limit && l.Pending() > 0; i++ {
		now = now.Add(interval)
		l.Tick(now)
	}
	return now
}
