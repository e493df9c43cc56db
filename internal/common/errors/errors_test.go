package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name          string
		err           *StandardError
		expectedCode  string
		expectedRetry int
	}{
		{"dataset load is retried", NewDatasetLoadFailedError("postgres", fmt.Errorf("conn refused")), "DATASET_LOAD_FAILED", 3},
		{"recommendation retried twice", NewRecommendationFailedError(fmt.Errorf("x")), "RECOMMENDATION_FAILED", 2},
		{"invalid answers are business errors", NewInvalidQuizAnswersError("question 9"), "INVALID_QUIZ_ANSWERS", 0},
		{"country not found", NewCountryNotFoundError("Atlantis"), "COUNTRY_NOT_FOUND", 0},
		{"parse error", NewParseError(fmt.Errorf("bad json")), "PARSE_ERROR", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmn.Code)
			assert.Equal(t, tt.expectedRetry, bpmn.Retries)
			assert.Equal(t, tt.expectedCode, bpmn.ErrorVariables["originalErrorCode"])

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.expectedCode, vars["errorCode"])
			assert.Equal(t, tt.err.Retryable, vars["retryable"])
			assert.Contains(t, vars, "timestamp")
		})
	}
}

func TestConvertToBPMNError_NonRetryableOverridesBudget(t *testing.T) {
	stdErr := NewDatasetLoadFailedError("file", fmt.Errorf("missing"))
	stdErr.Retryable = false
	assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
}

func TestNormalize(t *testing.T) {
	original := NewSessionNotFoundError("abc")
	wrapped := fmt.Errorf("load session: %w", original)

	assert.Same(t, original, Normalize(wrapped))

	plain := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestStandardError_Unwrap(t *testing.T) {
	cause := stderrors.New("redis down")
	err := NewSessionStoreFailedError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "SESSION_STORE_FAILED")
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "QUIZ", GetErrorCategory(ErrCodeSessionNotFound))
	assert.Equal(t, "DATASET", GetErrorCategory(ErrCodeCountryNotFound))
	assert.Equal(t, "DATASET", GetErrorCategory(ErrCodeDatasetValidationFailed))
	assert.Equal(t, "SCORING", GetErrorCategory(ErrCodeRecommendationFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeParseError))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestIsRetryableErrorCode(t *testing.T) {
	require.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	require.False(t, IsRetryableErrorCode(ErrCodeInvalidQuizAnswers))
}
