package metrics

import (
	"time"

	"github.com/san-kum/scramble/internal/sequencer"
)

// Stability is the fraction of frames in which no line showed fewer target
// runes than the frame before.
type Stability struct {
	name       string
	targets    [][]rune
	prev       []int
	violations int
	samples    int
}

func NewStability(targets []string) *Stability {
	s := &Stability{
		name:    "stability",
		targets: make([][]rune, len(targets)),
	}
	for i, t := range targets {
		s.targets[i] = []rune(t)
	}
	return s
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnFrame(now time.Time, st sequencer.State) {
	cur := make([]int, len(st.Lines))
	for i, line := range st.Lines {
		if i < len(s.targets) {
			cur[i] = matching([]rune(line), s.targets[i])
		}
	}
	if s.prev != nil {
		s.samples++
		for i := range cur {
			if i < len(s.prev) && cur[i] < s.prev[i] {
				s.violations++
				break
			}
		}
	}
	s.prev = cur
}

func matching(line, target []rune) int {
	n := 0
	for i := 0; i < len(line) && i < len(target); i++ {
		if target[i] != ' ' && line[i] == target[i] {
			n++
		}
	}
	return n
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.prev = nil
	s.violations = 0
	s.samples = 0
}
