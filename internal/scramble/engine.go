package scramble

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// Rand is the random source used for substitutes. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Frame is the displayable result of one engine evaluation.
type Frame struct {
	Text     string
	Revealed int
	Done     bool
}

type Engine struct {
	rng Rand
}

// NewEngine returns an engine drawing from rng, or from a time-seeded
// source when rng is nil.
func NewEngine(rng Rand) *Engine {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Engine{rng: rng}
}

// RevealCount returns how many leading runes are settled after elapsed.
func RevealCount(step Step, elapsed time.Duration) int {
	return int(math.Floor(progress(step, elapsed) * float64(step.Len())))
}

func progress(step Step, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return math.Min(1, float64(elapsed)/float64(step.Budget()))
}

// JitterBand returns the width of the flickering window behind the edge.
func JitterBand(length int) int {
	return max(1, int(math.Floor(float64(length)*JitterBandRatio)))
}

// Frame computes the string for step after elapsed. It returns ok == false
// when runID no longer matches current; the caller must drop the frame.
func (e *Engine) Frame(step Step, elapsed time.Duration, runID, current uint64) (Frame, bool) {
	if runID != current {
		return Frame{}, false
	}

	t := progress(step, elapsed)
	target := []rune(step.Text)
	if t >= 1 {
		return Frame{Text: step.Text, Revealed: len(target), Done: true}, true
	}

	set := CharSet(step.Chars)
	if len(set) == 0 {
		set = []rune(lowerLetters)
	}

	reveal := int(math.Floor(t * float64(len(target))))
	bandStart := reveal - JitterBand(len(target))
	chance := step.jitterChance()

	var b strings.Builder
	b.Grow(len(step.Text))
	for i, r := range target {
		switch {
		case r == ' ':
			b.WriteRune(' ')
		case i < reveal:
			if i >= bandStart && e.rng.Float64() < chance {
				b.WriteRune(e.pick(set))
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(e.pick(set))
		}
	}

	return Frame{Text: b.String(), Revealed: reveal}, true
}

func (e *Engine) pick(set []rune) rune {
	return set[e.rng.IntN(len(set))]
}
