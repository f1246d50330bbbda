package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("resource conflict")
	ErrValidation          = errors.New("validation failed")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrPassInProgress      = errors.New("detection pass already running")

	// ErrInvalidTransition is a conflict: the insight is in a state that does not
	// accept the requested lifecycle change.
	ErrInvalidTransition = fmt.Errorf("%w: invalid insight state transition", ErrConflict)
)

// Upstream wraps err as ErrUpstreamUnavailable, keeping the original cause in the chain.
func Upstream(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, what, err)
}

// Invalid builds an ErrValidation error for a single field.
func Invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, fmt.Sprintf(format, args...))
}
