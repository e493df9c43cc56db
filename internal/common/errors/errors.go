// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeParseError ErrorCode = "PARSE_ERROR"

	ErrCodeInvalidQuizAnswers ErrorCode = "INVALID_QUIZ_ANSWERS"
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeCountryNotFound         ErrorCode = "COUNTRY_NOT_FOUND"
	ErrCodeDatasetLoadFailed       ErrorCode = "DATASET_LOAD_FAILED"
	ErrCodeDatasetValidationFailed ErrorCode = "DATASET_VALIDATION_FAILED"
	ErrCodeRecommendationFailed    ErrorCode = "RECOMMENDATION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeEnrichmentFailed       ErrorCode = "ENRICHMENT_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Job variables could not be parsed", causeText(err), false, err)
}

// NewInvalidQuizAnswersError is a business error; the user must answer again.
func NewInvalidQuizAnswersError(details string) *StandardError {
	return newError(ErrCodeInvalidQuizAnswers, "Quiz answers are invalid", details, false, nil)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Quiz session not found", fmt.Sprintf("sessionId: %s", sessionID), false, nil)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Quiz session store unavailable", causeText(err), true, err)
}

func NewCountryNotFoundError(name string) *StandardError {
	return newError(ErrCodeCountryNotFound, "Country not found in dataset", fmt.Sprintf("country: %s", name), false, nil)
}

func NewDatasetLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeDatasetLoadFailed, "Country dataset could not be loaded",
		fmt.Sprintf("source: %s, error: %s", source, causeText(err)), true, err)
}

func NewDatasetValidationFailedError(details string) *StandardError {
	return newError(ErrCodeDatasetValidationFailed, "Country dataset failed validation", details, false, nil)
}

func NewRecommendationFailedError(err error) *StandardError {
	return newError(ErrCodeRecommendationFailed, "Recommendation could not be produced", causeText(err), true, err)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, causeText(err)), true, err)
}

func NewEnrichmentFailedError(country string, err error) *StandardError {
	return newError(ErrCodeEnrichmentFailed, "Economy data lookup failed",
		fmt.Sprintf("country: %s, error: %s", country, causeText(err)), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", causeText(err), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSessionStoreFailed,
		ErrCodeDatasetLoadFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeRecommendationFailed,
		ErrCodeEnrichmentFailed:
		return 2

	default:
		return 0 // business errors
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for log aggregation.
func GetErrorCategory(code ErrorCode) string {
	c := string(code)
	switch {
	case strings.Contains(c, "QUIZ") || strings.Contains(c, "SESSION"):
		return "QUIZ"
	case strings.Contains(c, "DATASET") || strings.Contains(c, "COUNTRY"):
		return "DATASET"
	case strings.Contains(c, "RECOMMENDATION"):
		return "SCORING"
	case strings.Contains(c, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(c, "ENRICHMENT"):
		return "ENRICHMENT"
	case strings.Contains(c, "PARSE") || strings.Contains(c, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
