// Package errs defines the error kinds every public operation of the
// catalog core can return. Callers match with errors.Is and map kinds
// to user-facing messages; nothing in this module panics or returns an
// untyped failure across its boundary.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a singular fetch matches no row.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousResult is returned when a query expected to be
	// singular matches more than one row.
	ErrAmbiguousResult = errors.New("ambiguous result")

	// ErrDuplicateRequest is returned when a student already has an
	// active (status=requested) counselor request.
	ErrDuplicateRequest = errors.New("active request already exists")

	// ErrInvalidTransition is returned for attempts to move a request
	// out of a terminal state, or into a state the machine does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden is returned when the acting user's role does not
	// permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed input before any store
	// access is attempted.
	ErrValidation = errors.New("validation failed")
)

// StoreError wraps a remote-store failure (unreachable, rejected query).
// It keeps the operation name so logs stay useful after several wraps.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store wraps err as a StoreError; nil stays nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStore reports whether err is a remote-store failure.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// Validation wraps ErrValidation with a reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
