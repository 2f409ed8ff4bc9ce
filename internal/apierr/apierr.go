package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the API-facing error carried from services up to handlers.
// Status picks the response class; Code identifies the failing step so the
// handler can choose a caller-safe message for 500s without exposing the
// wrapped error.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation marks a malformed-input failure. Its message is surfaced to the
// caller verbatim as a 400.
func Validation(err error) *Error {
	return New(http.StatusBadRequest, "validation", err)
}

// Persistence marks a downstream store failure. The wrapped error is logged
// server-side only; callers see a generic 500 message.
func Persistence(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}

// IsValidation reports whether err carries a 400-class API error.
func IsValidation(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusBadRequest
}

// CodeOf returns the step code of an API error, or "" for plain errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
