package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankError_Unwrap_PreservesOriginalError(t *testing.T) {
	originalErr := errors.New("connection refused")

	rankErr := New(ErrCodeOracleUnavailable, "oracle unreachable", originalErr)

	require.NotNil(t, rankErr)
	assert.Equal(t, originalErr, errors.Unwrap(rankErr))
	assert.True(t, errors.Is(rankErr, originalErr))
}

func TestRankError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeEmptyCorpus,
			message:  "corpus is empty after fallback",
			expected: "[ERR_102_EMPTY_CORPUS] corpus is empty after fallback",
		},
		{
			name:     "source error",
			code:     ErrCodeSourceNotFound,
			message:  "corpus file not found",
			expected: "[ERR_201_SOURCE_NOT_FOUND] corpus file not found",
		},
		{
			name:     "oracle error",
			code:     ErrCodeOracleTimeout,
			message:  "request timed out",
			expected: "[ERR_301_ORACLE_TIMEOUT] request timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestRankError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeQueryEmpty, "query must not be empty", nil)
	err2 := New(ErrCodeQueryEmpty, "missing query parameter", nil)

	assert.True(t, errors.Is(err1, err2))
}

func TestRankError_Is_DoesNotMatchDifferentCodes(t *testing.T) {
	err1 := New(ErrCodeQueryEmpty, "query must not be empty", nil)
	err2 := New(ErrCodeEmptyCorpus, "corpus is empty", nil)

	assert.False(t, errors.Is(err1, err2))
}

func TestRankError_WithDetail_AddsContext(t *testing.T) {
	err := New(ErrCodeSourceRead, "read failed", nil)

	err = err.WithDetail("path", "data/corpus.txt")
	err = err.WithDetail("source", "custom")

	assert.Equal(t, "data/corpus.txt", err.Details["path"])
	assert.Equal(t, "custom", err.Details["source"])
}

func TestCategoryAndSeverity_DerivedFromCode(t *testing.T) {
	tests := []struct {
		code     string
		category Category
		severity Severity
	}{
		{ErrCodeEmptyCorpus, CategoryConfig, SeverityFatal},
		{ErrCodeDimensionMismatch, CategoryConfig, SeverityFatal},
		{ErrCodeSourceNotFound, CategoryIO, SeverityWarning},
		{ErrCodeOracleTimeout, CategoryNetwork, SeverityWarning},
		{ErrCodeQueryEmpty, CategoryValidation, SeverityError},
		{ErrCodeInternal, CategoryInternal, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "msg", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestIsRetryable_OnlyOracleTransportCodes(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeOracleTimeout, "timeout", nil)))
	assert.True(t, IsRetryable(New(ErrCodeOracleUnavailable, "down", nil)))
	assert.False(t, IsRetryable(New(ErrCodeOracleResponse, "unparseable", nil)))
	assert.False(t, IsRetryable(New(ErrCodeQueryEmpty, "empty", nil)))
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestIsFatal_ConfigErrorsOnly(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeNotFitted, "embed before fit", nil)))
	assert.False(t, IsFatal(New(ErrCodeSourceRead, "read failed", nil)))
	assert.False(t, IsFatal(nil))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestGetCode_PlainErrorReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", GetCode(errors.New("plain")))
	assert.Equal(t, ErrCodeInternal, GetCode(InternalError("boom", nil)))
}
