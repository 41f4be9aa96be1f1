package errors

import (
	"fmt"
)

// RankError is the structured error type for hybridrank.
// It carries the context needed for logging and for deciding whether a
// failure is fatal, recoverable, or caller-visible.
type RankError struct {
	// Code is the unique error code (e.g., "ERR_102_EMPTY_CORPUS").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, ...).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *RankError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *RankError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with RankError.
func (e *RankError) Is(target error) bool {
	if t, ok := target.(*RankError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *RankError) WithDetail(key, value string) *RankError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new RankError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *RankError {
	return &RankError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a RankError from an existing error.
// The error's message becomes the RankError message.
func Wrap(code string, err error) *RankError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error (fatal at startup).
func ConfigError(message string, cause error) *RankError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// SourceError creates a corpus source loading error.
func SourceError(message string, cause error) *RankError {
	return New(ErrCodeSourceRead, message, cause)
}

// OracleError creates an oracle/network-related error.
func OracleError(message string, cause error) *RankError {
	return New(ErrCodeOracleUnavailable, message, cause)
}

// ValidationError creates an input validation error, surfaced to callers.
func ValidationError(message string, cause error) *RankError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *RankError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RankError); ok {
		return re.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort startup.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RankError); ok {
		return re.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a RankError.
// Returns empty string if not a RankError.
func GetCode(err error) string {
	if re, ok := err.(*RankError); ok {
		return re.Code
	}
	return ""
}

// GetCategory extracts the category from a RankError.
// Returns empty string if not a RankError.
func GetCategory(err error) Category {
	if re, ok := err.(*RankError); ok {
		return re.Category
	}
	return ""
}
