package walk

import (
	"errors"
	"fmt"
)

// Runtime errors for particle stepping.
var (
	// ErrReflectionBudget indicates one step could not resolve all wall
	// crossings within the reflection bound, even after retries.
	ErrReflectionBudget = errors.New("walk: reflection budget exceeded")

	// ErrSamplerRejection indicates the initial-condition sampler kept
	// producing points outside the domain.
	ErrSamplerRejection = errors.New("walk: initial sample rejected too many times")

	// ErrFieldInvalid indicates the drift/diffusion field returned a
	// non-finite or negative value.
	ErrFieldInvalid = errors.New("walk: invalid drift/diffusion value")
)

// StepError wraps a stepping failure with particle context.
type StepError struct {
	Step    int
	Time    float64
	Pos     [2]float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f, pos=%.4f,%.4f): %v", e.Step, e.Time, e.Pos[0], e.Pos[1], e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
