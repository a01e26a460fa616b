// Package errors provides structured error types for catalogcheck.
//
// Errors carry a machine-readable [Code] next to a human-readable message so
// the CLI can tell fatal, user-actionable conditions (a missing catalog, a
// corrupted response cache) apart from plain failures.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - NETWORK_*: Network-related errors
//   - CACHE_*: Response cache problems
//
// # Usage
//
//	err := errors.New(errors.ErrCodeCatalogNotFound, "catalog %s does not exist", path)
//	if errors.Is(err, errors.ErrCodeCatalogNotFound) {
//	    // Abort before any network traffic
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeReplaceFailed, origErr, "rewrite %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCatalog    Code = "INVALID_CATALOG"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidPolicy     Code = "INVALID_POLICY"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeCatalogNotFound Code = "CATALOG_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Cache errors
	ErrCodeCacheCorrupted Code = "CACHE_CORRUPTED"

	// File rewrite errors
	ErrCodeReplaceFailed Code = "REPLACE_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Remediation returns a suggested next step for codes that have one, or an
// empty string.
func Remediation(err error) string {
	switch GetCode(err) {
	case ErrCodeCacheCorrupted:
		return "clear the response cache with `catalogcheck cache clear` and retry"
	case ErrCodeCatalogNotFound:
		return "pass the catalog location with --catalog"
	default:
		return ""
	}
}
