package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input. Rejected before any transaction opens.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown resource or booking.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an overlap detected at commit time or a lost race.
	// Callers may retry.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition marks a status change from a terminal or
	// incompatible state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrReferenceExhausted is returned when every generated booking
	// reference collided.
	ErrReferenceExhausted = errors.New("booking reference generation exhausted")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func transitionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}
