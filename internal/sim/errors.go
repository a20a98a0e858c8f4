package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrDiverged indicates a particle position or velocity became NaN or Inf.
	ErrDiverged = errors.New("sim: state diverged")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("sim: run canceled")
)

// SimError attaches the tick at which a run failed.
type SimError struct {
	Tick    int
	Time    float64
	Message string
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("sim error at tick %d (t=%.4f): %s", e.Tick, e.Time, e.Message)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
