// Package apperr defines stable error codes for devmap failure modes and a
// coded error type that the HTTP layer maps onto status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Code represents a stable error code
type Code string

const (
	// InvalidInput indicates a missing or malformed required field in an
	// inbound event. Nothing is written to the store.
	InvalidInput Code = "INVALID_INPUT"
	// NotFound indicates a requested row does not exist
	NotFound Code = "NOT_FOUND"
	// BackendFailure indicates an outbound backend call failed hard
	// (text-generation or retrieve-and-generate backend)
	BackendFailure Code = "BACKEND_FAILURE"
	// StoreFailure indicates the contribution or summary store is unreachable
	// or rejected a write
	StoreFailure Code = "STORE_FAILURE"
	// Internal indicates an unexpected error
	Internal Code = "INTERNAL_ERROR"
)

// Error is a coded error with an optional underlying cause
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New creates a coded error without a cause
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error wrapping an underlying cause
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf extracts the code from an error chain, defaulting to Internal
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return Internal
}
