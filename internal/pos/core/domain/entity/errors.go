package entity

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a lookup addressed by id/phone/index that matched
// nothing. Pure reads return it directly; mutations wrap it with context.
var ErrNotFound = errors.New("not found")

// ErrCheckoutInFlight is returned when a checkout is started while a
// previous one has not finished (e.g. a double click on the pay button).
var ErrCheckoutInFlight = errors.New("checkout already in progress")

// ValidationError reports invalid caller input. It leaves all stores
// untouched and maps to a 400 at the HTTP boundary.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failure of the underlying key-value backend.
// It carries the storage key so the operator can tell which ledger was
// being written when the backend failed.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: key %q: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
