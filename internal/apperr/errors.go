// Package apperr defines the error taxonomy shared by the validation,
// service, and store layers. Callers classify failures with errors.Is;
// presentation layers translate them to exit codes or HTTP statuses.
package apperr

import "errors"

var (
	// Field validation failures.
	ErrEmptyField   = errors.New("field is empty")
	ErrTooFewWords  = errors.New("too few words")
	ErrTooManyWords = errors.New("too many words")

	// Value validation failures.
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrPastDeadline      = errors.New("deadline is in the past")
	ErrInvalidID         = errors.New("invalid id")

	// Business-rule failures.
	ErrDuplicateName    = errors.New("duplicate project name")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrNotFound         = errors.New("not found")

	// ErrStorage wraps unexpected datastore failures. Presentation layers
	// must never expose its underlying cause to clients.
	ErrStorage = errors.New("storage failure")
)

// IsValidation reports whether err belongs to the validation family,
// i.e. it was caused by bad input rather than system state.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyField, ErrTooFewWords, ErrTooManyWords,
		ErrInvalidStatus, ErrInvalidDateFormat, ErrPastDeadline,
		ErrInvalidID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
