// Package domainerrors defines coded errors that cross service boundaries.
// Services translate store sentinels and validation failures into these;
// transport layers map the codes onto HTTP statuses without inspecting
// messages.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of failure. Codes are part of the API surface:
// they appear verbatim in error envelopes.
type Code string

const (
	// CodeUnauthorized means the caller's identity was positively rejected.
	// It is never used when the answer could not be determined.
	CodeUnauthorized Code = "unauthorized"

	// CodeValidation means the request itself is malformed or incomplete.
	CodeValidation Code = "bad_request"

	// CodeNotFound means the referenced entity does not exist.
	CodeNotFound Code = "not_found"

	// CodeUnavailable means a dependency could not be reached or failed.
	// The request may succeed if retried.
	CodeUnavailable Code = "unavailable"

	// CodeConflict means the write lost to a concurrent writer.
	CodeConflict Code = "conflict"

	// CodeInternal is the fallback for unclassified failures.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Message is safe to show to callers except
// when Code is CodeInternal.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that preserves the underlying cause for
// errors.Is/As while presenting the coded message to callers.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// ToHTTPStatus maps a code onto its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
