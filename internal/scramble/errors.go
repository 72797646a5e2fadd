package scramble

import (
	"errors"
	"fmt"
)

// Configuration errors. Stale frames are not errors and never surface here.
var (
	// ErrInvalidStep wraps every step validation failure.
	ErrInvalidStep = errors.New("scramble: invalid step")

	// ErrEmptyCharSet indicates a step with no substitute characters.
	ErrEmptyCharSet = errors.New("scramble: empty character set")

	// ErrNonPositiveDuration indicates a step with a zero or negative duration.
	ErrNonPositiveDuration = errors.New("scramble: duration must be positive")

	// ErrSpeedOutOfRange indicates a reveal speed factor outside [0, 1].
	ErrSpeedOutOfRange = errors.New("scramble: speed must be within [0, 1]")

	// ErrNoSteps indicates an empty sequence.
	ErrNoSteps = errors.New("scramble: at least one step is required")
)

// StepError wraps a validation failure with the position of the step.
type StepError struct {
	Index int
	ID    string
	Err   error
}

func (e *StepError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("step %d (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("step %d: %v", e.Index, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{ErrInvalidStep, e.Err}
}
