package service

import "errors"

// ErrParseFailure is returned when expense text matches neither accepted layout
var ErrParseFailure = errors.New("unrecognized expense format")

// ValidationError is a user-correctable rejection; Reason is shown to the user as is
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
