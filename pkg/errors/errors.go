// Package errors provides structured error types for the Arborview
// application.
//
// The core build and layout packages fail with plain sentinel errors; this
// package classifies those failures into machine-readable codes for the API
// and CLI surfaces. Callers present a single generic message to users
// ("could not render graph data") while the precise code goes to logs.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "empty row set")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // handle validation error
//	}
//
//	// Classify a hierarchy build failure
//	err = errors.Classify(buildErr)
package errors

import (
	"errors"
	"fmt"

	"github.com/arborview/arborview/pkg/tree"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different failure categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Hierarchy build errors
	ErrCodeNoRoot        Code = "NO_ROOT"
	ErrCodeMultipleRoots Code = "MULTIPLE_ROOTS"
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"
	ErrCodeOrphanRow     Code = "ORPHAN_ROW"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeStore    Code = "STORE_ERROR"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// GenericMessage is the single user-facing message for every core failure.
// The precise error code is for logging and diagnostics only.
const GenericMessage = "could not render graph data"

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
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

// Is reports whether err carries the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error chain contains no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Classify maps a hierarchy build failure onto its error code. Errors that
// already carry a code pass through unchanged, as does nil. Anything else
// is wrapped as ErrCodeInternal.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, tree.ErrNoRoot):
		return Wrap(ErrCodeNoRoot, err, "hierarchy has no root")
	case errors.Is(err, tree.ErrMultipleRoots):
		return Wrap(ErrCodeMultipleRoots, err, "hierarchy has more than one root")
	case errors.Is(err, tree.ErrCycleDetected):
		return Wrap(ErrCodeCycleDetected, err, "hierarchy contains a parent cycle")
	case errors.Is(err, tree.ErrOrphanRow):
		return Wrap(ErrCodeOrphanRow, err, "hierarchy references a missing parent")
	default:
		return Wrap(ErrCodeInternal, err, "unexpected failure")
	}
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
