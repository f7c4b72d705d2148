// Package apperr defines the error taxonomy used across the Chefhut backend.
//
// Services return coded errors; controllers translate them to HTTP status
// codes via response.FromError. Anything without a code surfaces as a 500.
package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an error for the HTTP boundary.
type Code string

const (
	CodeValidation Code = "VALIDATION"
	CodeConflict   Code = "CONFLICT"
	CodeNotFound   Code = "NOT_FOUND"
	CodeForbidden  Code = "FORBIDDEN"
	CodeInternal   Code = "INTERNAL"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Err     error // wrapped cause, not exposed to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error with a client-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a cause to a coded error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
	return New(CodeConflict, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(CodeForbidden, fmt.Sprintf(format, args...))
}

func Internal(message string, err error) *Error {
	return Wrap(CodeInternal, message, err)
}

// CodeOf extracts the taxonomy code from err.
// Errors without a code are treated as internal.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
