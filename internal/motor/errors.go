package motor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry indicates out-of-domain hardware dimensions.
	ErrInvalidGeometry = errors.New("burnsim: invalid geometry")

	// ErrNumericalInconsistency indicates a regression step grew a grain's volume.
	ErrNumericalInconsistency = errors.New("burnsim: numerical inconsistency (grain volume increased)")

	// ErrUnsupportedGeometry indicates a grain profile with no implementation.
	ErrUnsupportedGeometry = errors.New("burnsim: unsupported grain geometry")
)

// GeometryError reports which input failed validation.
type GeometryError struct {
	Part   string
	Field  string
	Value  float64
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s (got %g)", ErrInvalidGeometry, e.Part, e.Field, e.Reason, e.Value)
}

func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}

func invalid(part, field string, value float64, reason string) error {
	return &GeometryError{Part: part, Field: field, Value: value, Reason: reason}
}
