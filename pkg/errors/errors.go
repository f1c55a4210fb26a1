// Package errors provides structured error types for routetrace.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Lists of human-readable problems for validation failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRequest, "origin and destination must differ")
//	if errors.Is(err, errors.ErrCodeInvalidRequest) {
//	    // Handle validation error
//	}
//
//	// Collect every problem before failing
//	v := errors.NewValidation(errors.ErrCodeInvalidEdge, "invalid edge")
//	v.Addf("node %q does not exist", id)
//	return v.Err()
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidNode      Code = "INVALID_NODE"
	ErrCodeInvalidEdge      Code = "INVALID_EDGE"
	ErrCodeInvalidNodeCount Code = "INVALID_NODE_COUNT"
	ErrCodeInvalidRequest   Code = "INVALID_REQUEST"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeNodeNotFound    Code = "NODE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code     Code     // Machine-readable error code
	Message  string   // Human-readable message
	Problems []string // Individual validation problems (optional)
	Cause    error    // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if len(e.Problems) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Problems, "; "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Problems returns the validation problems attached to err.
// Returns nil if err carries no problem list.
func Problems(err error) []string {
	var e *Error
	if errors.As(err, &e) && len(e.Problems) > 0 {
		out := make([]string, len(e.Problems))
		copy(out, e.Problems)
		return out
	}
	return nil
}

// IsInvalid reports whether err carries one of the INVALID_* codes.
func IsInvalid(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), "INVALID_")
}

// IsNotFound reports whether err carries one of the *NOT_FOUND codes.
func IsNotFound(err error) bool {
	return strings.HasSuffix(string(GetCode(err)), "NOT_FOUND")
}
