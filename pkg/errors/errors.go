// Package errors provides structured error types for archdiagram.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and preview server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Composition errors (INVALID_ATTRIBUTE, CYCLE_DETECTED, UNKNOWN_ENDPOINT) are
// recoverable by fixing the composition call. RENDER_ENGINE_FAILURE is an
// environment problem: the layout engine is missing or failed, and its own
// diagnostic text is carried verbatim in an [EngineError].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidAttribute, "unknown node attribute %q", key)
//	if errors.Is(err, errors.ErrCodeInvalidAttribute) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidPath, origErr, "create output dir %s", dir)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Composition errors
	ErrCodeInvalidAttribute Code = "INVALID_ATTRIBUTE"
	ErrCodeCycleDetected    Code = "CYCLE_DETECTED"
	ErrCodeUnknownEndpoint  Code = "UNKNOWN_ENDPOINT"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Environment errors
	ErrCodeRenderEngine Code = "RENDER_ENGINE_FAILURE"
	ErrCodeTimeout      Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

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

// coded is implemented by error types that carry a code without being *Error.
type coded interface {
	error
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or coded error with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coded
	if errors.As(err, &c) {
		return c.Code()
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

// EngineError reports that the external layout engine is unavailable or failed.
// Diagnostics holds the engine's own stderr output, unmodified.
type EngineError struct {
	Engine      string // Engine name or executable (e.g. "dot")
	Diagnostics string // Engine stderr, verbatim
	ExitCode    int    // Process exit code; -1 when the process never ran or was killed
	Cause       error  // Underlying error (exec, context, ...)
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrCodeRenderEngine, e.Engine)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Diagnostics != "" {
		msg += ": " + e.Diagnostics
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error { return e.Cause }

// Code returns the error code for this error type.
func (e *EngineError) Code() Code {
	return ErrCodeRenderEngine
}
