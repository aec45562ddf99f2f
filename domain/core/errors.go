package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: parameter column", ErrNotFound)
	ErrLinkNotFound   = fmt.Errorf("%w: validated link", ErrNotFound)

	// Structural input errors. These are the only conditions a validation
	// call is allowed to surface as errors; statistical degeneracy is
	// always absorbed into fallback outcomes instead.
	ErrEmptyTable     = errors.New("parameter table has no columns")
	ErrLengthMismatch = errors.New("series lengths do not match table index")
	ErrNoObservations = errors.New("data source returned no observations")
)

// NewColumnNotFoundError reports a named column missing from a table.
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// NewLengthMismatchError reports a column whose length differs from the table index.
func NewLengthMismatchError(name string, got, want int) error {
	return fmt.Errorf("%w: column %s has %d rows, table has %d", ErrLengthMismatch, name, got, want)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsStructuralError(err error) bool {
	return errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrNoObservations)
}
