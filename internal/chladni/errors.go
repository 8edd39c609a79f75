package chladni

import (
	"errors"
	"fmt"
)

// Domain errors for field configuration.
var (
	// ErrInvalidCount indicates a particle count that is zero or negative.
	ErrInvalidCount = errors.New("chladni: particle count must be positive")

	// ErrInvalidBand indicates a reference band that is empty, inverted or
	// starts at a non-positive frequency.
	ErrInvalidBand = errors.New("chladni: frequency band must satisfy 0 < min < max")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("chladni: parameter out of valid bounds")
)

// ParamError wraps an error with the offending parameter.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s = %g: %v", e.Name, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
