package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigFetch          ErrorCode = "CONFIG_FETCH"
	ErrConfigFormat         ErrorCode = "CONFIG_FORMAT"
	ErrInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"

	// Matching errors
	ErrPatternSyntax ErrorCode = "PATTERN_SYNTAX"

	// Reconciliation errors
	ErrTruncationExceeded ErrorCode = "TRUNCATION_EXCEEDED"

	// Remote API errors
	ErrAPIRequest ErrorCode = "API_REQUEST"
)

// LabelerError represents a structured error with code and details
type LabelerError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LabelerError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LabelerError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LabelerError) Is(target error) bool {
	var targetErr *LabelerError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LabelerError with the given code and message
func New(code ErrorCode, message string) *LabelerError {
	return &LabelerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LabelerError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LabelerError {
	return &LabelerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LabelerError
func Wrap(err error, code ErrorCode, message string) *LabelerError {
	if err == nil {
		return nil
	}
	return &LabelerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LabelerError {
	if err == nil {
		return nil
	}
	return &LabelerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LabelerError) WithDetail(key string, value interface{}) *LabelerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var lerr *LabelerError
	if errors.As(err, &lerr) {
		return lerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a LabelerError
func GetErrorCode(err error) ErrorCode {
	var lerr *LabelerError
	if errors.As(err, &lerr) {
		return lerr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a LabelerError
func GetErrorDetails(err error) map[string]interface{} {
	var lerr *LabelerError
	if errors.As(err, &lerr) {
		return lerr.Details
	}
	return nil
}
