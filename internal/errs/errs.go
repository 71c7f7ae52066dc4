// Package errs defines the error taxonomy shared by the core services.
// Anything not covered here is a store error and is wrapped and propagated
// as-is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an operation against a prompt or submission ID
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports an attempted mutation of a submission that is
	// already in a terminal state. Callers treat it as "already processed",
	// not as a failure.
	ErrConflict = errors.New("already processed")

	// ErrIDExhausted reports that ID generation kept colliding past the
	// retry bound. With a 36^6 ID space this should never happen; it is
	// surfaced loudly instead of retried forever.
	ErrIDExhausted = errors.New("id space exhausted after retries")
)

// ValidationError reports user input rejected before it reaches the store:
// empty or oversized text, unknown category. Recoverable, never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
