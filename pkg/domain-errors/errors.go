// Package domainerrors defines the error taxonomy shared by services and
// transport layers. Services wrap infrastructure errors into coded domain
// errors; httputil translates codes into HTTP statuses.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for callers that need to branch on failure
// kind without string matching.
type Code string

const (
	// CodeInvalidInput: caller supplied a malformed or missing value.
	CodeInvalidInput Code = "invalid_input"
	// CodeInvalidConfig: a client's configured parameters are unusable
	// (e.g. zero periodicity). Fatal to that single computation, never
	// silently defaulted.
	CodeInvalidConfig Code = "invalid_config"
	// CodeNotFound: the referenced entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict: the operation collided with existing state.
	CodeConflict Code = "conflict"
	// CodeUnavailable: a backing store is unreachable; retryable.
	CodeUnavailable Code = "unavailable"
	// CodeInternal: unexpected failure; details are logged, not exposed.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error, optionally wrapping an underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap annotates an underlying error with a domain code and message.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the domain code from an error chain.
// Unrecognized errors report CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the domain message from an error chain, empty when the
// error carries no domain annotation.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
