package commonerrors

import (
	"errors"
	"fmt"
)

// MissingFieldError names the input field that was absent. It unwraps to
// ErrMissingField so the HTTP layer can map it like any other domain error.
type MissingFieldError struct {
	Field string
}

func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

func AsMissingFieldError(err error) (*MissingFieldError, bool) {
	var mfe *MissingFieldError
	if errors.As(err, &mfe) {
		return mfe, true
	}
	return nil, false
}
