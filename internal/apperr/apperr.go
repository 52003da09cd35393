// Package apperr defines the error type used across the application.
package apperr

// Error is an application error with a user-facing message and an
// optional underlying cause.
type Error struct {
	Cause   error
	Message string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap returns a copy of the error with the specified cause attached.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Message: e.Message,
		Cause:   err,
	}
}
