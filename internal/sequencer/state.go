package sequencer

import "time"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseSettled
	// PhaseStatic is the end state of a reduced-motion start.
	PhaseStatic
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseSettled:
		return "settled"
	case PhaseStatic:
		return "static"
	}
	return "unknown"
}

// State is the observable output read by the render surface.
type State struct {
	Lines         []string
	ActiveLine    int
	CursorVisible bool
}

func (s State) Clone() State {
	c := s
	c.Lines = make([]string, len(s.Lines))
	copy(c.Lines, s.Lines)
	return c
}

// Observer is notified after every mutation of the sequencer state.
type Observer interface {
	OnFrame(now time.Time, st State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(now time.Time, st State)

func (f ObserverFunc) OnFrame(now time.Time, st State) { f(now, st) }
