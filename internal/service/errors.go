package service

import (
	"errors"
)

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrConflict           = errors.New("conflict")            // 400
	ErrNotFound           = errors.New("not found")           // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 400
	ErrUnauthorized       = errors.New("unauthorized")        // 401
	ErrForbidden          = errors.New("forbidden")           // 403
)

// Error is a failure the client is allowed to see. Message is rendered as
// is; Kind decides the status code.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Message returns the client-facing text carried by err, or "".
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
