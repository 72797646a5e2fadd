package scramble

import (
	"time"
	"unicode/utf8"
)

const (
	// LowerCase names the ASCII lowercase alphabet.
	LowerCase = "lowerCase"
	// UpperCase names the ASCII uppercase alphabet.
	UpperCase = "upperCase"

	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

const (
	DefaultSpeed = 0.3
	MinDuration  = 200 * time.Millisecond

	// Jitter band width as a fraction of the line length.
	JitterBandRatio = 0.12
	MinJitterChance = 0.05
	MaxJitterChance = 0.35
)

// Step is one line of the sequence.
type Step struct {
	ID       string
	Text     string
	Chars    string
	Duration time.Duration
	Speed    float64
}

// NewStep returns a step using the default speed.
func NewStep(text, chars string, d time.Duration) Step {
	return Step{Text: text, Chars: chars, Duration: d, Speed: DefaultSpeed}
}

// CharSet resolves a named class or literal set to its runes.
func CharSet(chars string) []rune {
	switch chars {
	case LowerCase:
		return []rune(lowerLetters)
	case UpperCase:
		return []rune(upperLetters)
	}
	return []rune(chars)
}

// Budget is the reveal time, never shorter than MinDuration.
func (s Step) Budget() time.Duration {
	if s.Duration < MinDuration {
		return MinDuration
	}
	return s.Duration
}

// Len returns the line length in runes.
func (s Step) Len() int { return utf8.RuneCountInString(s.Text) }

func (s Step) jitterChance() float64 {
	return clamp(s.Speed, MinJitterChance, MaxJitterChance)
}

// Validate checks a single step.
func (s Step) Validate() error {
	if s.Chars == "" {
		return ErrEmptyCharSet
	}
	if s.Duration <= 0 {
		return ErrNonPositiveDuration
	}
	if s.Speed < 0 || s.Speed > 1 {
		return ErrSpeedOutOfRange
	}
	return nil
}

// ValidateSteps checks a whole sequence and reports the first bad step.
func ValidateSteps(steps []Step) error {
	if len(steps) == 0 {
		return ErrNoSteps
	}
	for i, s := range steps {
		if err := s.Validate(); err != nil {
			return &StepError{Index: i, ID: s.ID, Err: err}
		}
	}
	return nil
}

// Timeline returns the start offset of every step and the total length.
func Timeline(steps []Step) (offsets []time.Duration, total time.Duration) {
	offsets = make([]time.Duration, len(steps))
	for i, s := range steps {
		offsets[i] = total
		total += s.Duration
	}
	return offsets, total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
