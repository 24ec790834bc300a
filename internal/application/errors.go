package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidID      = errors.New("invalid id")
	ErrEmptyCapture   = errors.New("nothing to capture")
	ErrGuardViolation = errors.New("ledger integrity violated")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// GuardError reports the integrity violations found by the guard check
type GuardError struct {
	Violations []string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%d integrity violations", len(e.Violations))
}

func (e *GuardError) Is(target error) bool {
	return target == ErrGuardViolation
}
