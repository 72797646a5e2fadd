package storage

import (
	"time"

	"github.com/san-kum/scramble/internal/scramble"
	"github.com/san-kum/scramble/internal/sequencer"
)

// Sample is one observed state of the sequencer.
type Sample struct {
	Time          float64  `json:"time"`
	ActiveLine    int      `json:"active_line"`
	CursorVisible bool     `json:"cursor_visible"`
	Revealed      int      `json:"revealed"`
	Lines         []string `json:"lines"`
}

// Recorder is a sequencer.Observer that keeps every state it sees, with
// time measured from the first observation.
type Recorder struct {
	targets [][]rune
	origin  time.Time
	started bool
	samples []Sample
}

func NewRecorder(steps []scramble.Step) *Recorder {
	targets := make([][]rune, len(steps))
	for i, s := range steps {
		targets[i] = []rune(s.Text)
	}
	return &Recorder{targets: targets, samples: make([]Sample, 0, 256)}
}

func (r *Recorder) OnFrame(now time.Time, st sequencer.State) {
	if !r.started {
		r.origin, r.started = now, true
	}
	r.samples = append(r.samples, Sample{
		Time:          now.Sub(r.origin).Seconds(),
		ActiveLine:    st.ActiveLine,
		CursorVisible: st.CursorVisible,
		Revealed:      r.revealed(st.Lines),
		Lines:         st.Lines,
	})
}

// revealed counts non-space runes already showing their target.
func (r *Recorder) revealed(lines []string) int {
	n := 0
	for i, line := range lines {
		if i >= len(r.targets) {
			break
		}
		target := r.targets[i]
		j := 0
		for _, c := range line {
			if j >= len(target) {
				break
			}
			if target[j] != ' ' && c == target[j] {
				n++
			}
			j++
		}
	}
	return n
}

// Total is the number of runes that can be revealed.
func (r *Recorder) Total() int {
	n := 0
	for _, t := range r.targets {
		for _, c := range t {
			if c != ' ' {
				n++
			}
		}
	}
	return n
}

func (r *Recorder) Samples() []Sample { return r.samples }

func (r *Recorder) Reset() {
	r.samples = make([]Sample, 0, cap(r.samples))
	r.started = false
}
