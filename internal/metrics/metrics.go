// Package metrics summarises sequencer runs. Every metric is a
// sequencer.Observer and can be attached with sequencer.WithObserver.
package metrics

import (
	"time"

	"github.com/san-kum/scramble/internal/sequencer"
)

type Metric interface {
	sequencer.Observer
	Name() string
	Value() float64
	Reset()
}

// Set fans frames out to several metrics.
type Set []Metric

func (s Set) OnFrame(now time.Time, st sequencer.State) {
	for _, m := range s {
		m.OnFrame(now, st)
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Standard returns the metrics reported for every trace.
func Standard(targets []string) Set {
	return Set{NewFlicker(), NewSettleTime(), NewStability(targets)}
}
