package negotiation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the dispute (or settlement) does not exist.
	ErrNotFound = errors.New("dispute not found")

	// ErrExpired is returned when a merchant acts after ExpiresAt.
	ErrExpired = errors.New("dispute response window has expired")

	// ErrAlreadyResolved is returned when the dispute is no longer PENDING.
	ErrAlreadyResolved = errors.New("dispute already resolved")

	// ErrEventAlreadyStored is returned when an event with the same event_id was already ingested.
	ErrEventAlreadyStored = errors.New("event already stored")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries every violation found, never just the first.
type ValidationError struct {
	Errors []string
}

func NewValidationError(errs ...string) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AdapterError wraps a failed marketplace call. The original error stays
// reachable through errors.Is / errors.As.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("marketplace %s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
