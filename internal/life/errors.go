package life

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is wrapped by every *ConfigError.
var ErrInvalidParams = errors.New("life: invalid simulation parameters")

// ConfigError reports a parameter rejected at construction.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("life: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidParams
}

// InvariantError is the panic value raised when a color index outside the
// rule matrix reaches a lookup. Colors are produced in range at construction,
// so seeing one means a bug, not bad input.
type InvariantError struct {
	Row, Col int
	M        int
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("life: rule lookup (%d, %d) outside %dx%d matrix", e.Row, e.Col, e.M, e.M)
}
