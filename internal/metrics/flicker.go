package metrics

import (
	"time"

	"github.com/san-kum/scramble/internal/sequencer"
)

// Flicker is the mean number of runes that changed between frames.
type Flicker struct {
	name    string
	prev    []string
	sum     int
	samples int
}

func NewFlicker() *Flicker {
	return &Flicker{
		name: "flicker",
	}
}

func (f *Flicker) Name() string {
	return f.name
}

func (f *Flicker) OnFrame(now time.Time, st sequencer.State) {
	if f.prev != nil {
		for i, line := range st.Lines {
			if i < len(f.prev) {
				f.sum += changed(f.prev[i], line)
			}
		}
		f.samples++
	}
	f.prev = append(f.prev[:0], st.Lines...)
}

func changed(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n := 0
	for i := 0; i < max(len(ra), len(rb)); i++ {
		if i >= len(ra) || i >= len(rb) || ra[i] != rb[i] {
			n++
		}
	}
	return n
}

func (f *Flicker) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return float64(f.sum) / float64(f.samples)
}

func (f *Flicker) Reset() {
	f.prev = nil
	f.sum = 0
	f.samples = 0
}
