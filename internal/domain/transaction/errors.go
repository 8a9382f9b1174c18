package transaction

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("transaction not found")

	// ErrLocked covers both the isLocked flag and terminal statuses.
	ErrLocked = errors.New("transaction is locked")

	// ErrInvalidTransition is the class sentinel; the typed error below
	// carries the expected predecessor level.
	ErrInvalidTransition = errors.New("invalid level transition")

	ErrDuplicateNumber = errors.New("transaction number already exists for tenant")

	// ErrValidation is the class sentinel matched by ValidationError.
	ErrValidation = errors.New("validation failed")
)

type InvalidTransitionError struct {
	RequiredLevel int
	CurrentLevel  int
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: requires completed level %d, current level is %d",
		e.RequiredLevel, e.CurrentLevel)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// ValidationError is a rejected input with a human-readable reason.
type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
