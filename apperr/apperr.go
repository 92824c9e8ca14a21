// Package apperr defines the error kinds shared by every service. Domain
// packages wrap these kinds in their own sentinels; the transports only ever
// look at the kind.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated covers a missing, malformed, expired or otherwise
	// unusable credential. It never carries the reason.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned both when a record does not exist and when it
	// belongs to somebody else.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials rejects a login without saying which half of
	// the email and password pair was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrConflict = errors.New("conflict")
	ErrTimeout  = errors.New("upstream timeout")
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation reports whether err carries a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// IsTimeout reports whether err was caused by a request deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
