package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a particle with a NaN or Inf position or
	// velocity.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a run configuration outside its valid range.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")
)

// SimulationError wraps an error with the step and particle it was found at.
type SimulationError struct {
	Step     int
	Time     float64
	Particle int
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%v at step %d (t=%.4f, particle %d)", e.Wrapped, e.Step, e.Time, e.Particle)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
