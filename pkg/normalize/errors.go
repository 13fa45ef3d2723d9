package normalize

import (
	"errors"
	"fmt"
)

// Common errors returned by the normalizer.
var (
	// ErrUnsupportedShape is returned when the shape name has no handler.
	ErrUnsupportedShape = errors.New("unsupported shape")

	// ErrMissingField is returned when a required item field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField is returned when a field is present but cannot be converted.
	ErrInvalidField = errors.New("invalid field value")
)

// FieldError reports which item and field path broke normalization.
type FieldError struct {
	Shape Shape
	Index int
	Path  string
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s item %d: %s: %v", e.Shape, e.Index, e.Path, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FieldError) Unwrap() error {
	return e.Err
}
