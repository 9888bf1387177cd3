package domain

import (
	"errors"
	"fmt"
)

// DomainError is an engine error with a structured error code.
//
// Codes have the form CM-<AREA>-<NNNN>. Two DomainErrors match under
// errors.Is when their codes are equal, so a wrapped instance carrying
// details still matches the package-level sentinel.
type DomainError struct {
	Code    string // Error code (e.g., "CM-TBL-5070")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Table Errors (TBL)
// ============================================================================

var (
	// ErrTableFull indicates the probe distance was exhausted before a slot
	// could be claimed. The key was not stored.
	ErrTableFull = NewDomainError("CM-TBL-5070", "table full")

	// ErrKeyMismatch indicates an update found a slot owned by another key.
	ErrKeyMismatch = NewDomainError("CM-TBL-4090", "slot key mismatch")
)

// ============================================================================
// Key Errors (KEY)
// ============================================================================

var (
	// ErrInvalidKey indicates a key that is empty or exceeds the key capacity.
	ErrInvalidKey = NewDomainError("CM-KEY-4001", "invalid key")
)

// ============================================================================
// Configuration and Argument Errors (CFG, ARG)
// ============================================================================

var (
	// ErrInvalidConfig indicates a configuration that cannot be constructed.
	ErrInvalidConfig = NewDomainError("CM-CFG-4001", "invalid configuration")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("CM-ARG-1001", "invalid argument")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an unexpected engine failure.
	ErrInternal = NewDomainError("CM-SYS-5000", "internal error")
)
