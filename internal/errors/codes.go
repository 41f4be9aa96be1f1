// Package errors provides structured error handling for hybridrank.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors (fatal at startup)
//   - 2XX: Source/IO errors (recovered by corpus fallback)
//   - 3XX: Oracle/network errors (recovered with neutral score)
//   - 4XX: Validation errors (surfaced to the caller)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates corpus source and file I/O errors.
	CategoryIO Category = "IO"
	// CategoryNetwork indicates oracle and network-related errors.
	CategoryNetwork Category = "NETWORK"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, the service cannot start.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but the process can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid     = "ERR_101_CONFIG_INVALID"
	ErrCodeEmptyCorpus       = "ERR_102_EMPTY_CORPUS"
	ErrCodeNotFitted         = "ERR_103_NOT_FITTED"
	ErrCodeDimensionMismatch = "ERR_104_DIMENSION_MISMATCH"

	// Source errors (200-299)
	ErrCodeSourceNotFound = "ERR_201_SOURCE_NOT_FOUND"
	ErrCodeSourceRead     = "ERR_202_SOURCE_READ"
	ErrCodeNoVerses       = "ERR_203_NO_VERSES"

	// Oracle errors (300-399)
	ErrCodeOracleTimeout     = "ERR_301_ORACLE_TIMEOUT"
	ErrCodeOracleUnavailable = "ERR_302_ORACLE_UNAVAILABLE"
	ErrCodeOracleResponse    = "ERR_303_ORACLE_RESPONSE"

	// Validation errors (400-499)
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeQueryEmpty   = "ERR_402_QUERY_EMPTY"
	ErrCodeInvalidLimit = "ERR_403_INVALID_LIMIT"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeSearchFailed = "ERR_502_SEARCH_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryNetwork
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryConfig:
		// Configuration errors abort startup.
		return SeverityFatal
	case CategoryIO, CategoryNetwork:
		// Recovered locally (corpus fallback, neutral oracle score).
		return SeverityWarning
	default:
		return SeverityError
	}
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeOracleTimeout, ErrCodeOracleUnavailable:
		return true
	default:
		return false
	}
}
