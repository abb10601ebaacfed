// Package errors provides standardized error handling for the marketplace API.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeDiscountInvalid   ErrorCode = "DISCOUNT_INVALID"
	ErrCodeDiscountExpired   ErrorCode = "DISCOUNT_EXPIRED"
	ErrCodeDiscountExhausted ErrorCode = "DISCOUNT_EXHAUSTED"

	ErrCodeCartEmpty         ErrorCode = "CART_EMPTY"
	ErrCodeOrderCreateFailed ErrorCode = "ORDER_CREATE_FAILED"
	ErrCodeReceiptSendFailed ErrorCode = "RECEIPT_SEND_FAILED"
	ErrCodeNotifySendFailed  ErrorCode = "NOTIFY_SEND_FAILED"
	ErrCodeUpstreamRateLimit ErrorCode = "UPSTREAM_RATE_LIMIT"
	ErrCodeUpstreamNoCredits ErrorCode = "UPSTREAM_NO_CREDITS"
	ErrCodeUpstreamFailed    ErrorCode = "UPSTREAM_FAILED"
	ErrCodeChatTurnInFlight  ErrorCode = "CHAT_TURN_IN_FLIGHT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps an error code to the response status the API returns.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeValidationFailed, ErrCodeCartEmpty:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeIndexNotFound:
		return http.StatusNotFound
	case ErrCodeDiscountInvalid, ErrCodeDiscountExpired, ErrCodeDiscountExhausted:
		return http.StatusUnprocessableEntity
	case ErrCodeChatTurnInFlight:
		return http.StatusConflict
	case ErrCodeUpstreamRateLimit:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamNoCredits:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// Normalize ensures we always have a StandardError to hand to the response writer.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable request validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable missing-resource error.
func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDiscountInvalidError creates a non-retryable discount error.
func NewDiscountInvalidError(code string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDiscountInvalid,
		Message:   "Discount code is not valid",
		Details:   fmt.Sprintf("code: %s", code),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDiscountExpiredError creates a non-retryable discount error.
func NewDiscountExpiredError(code string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDiscountExpired,
		Message:   "Discount code has expired",
		Details:   fmt.Sprintf("code: %s", code),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDiscountExhaustedError creates a non-retryable discount error.
func NewDiscountExhaustedError(code string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDiscountExhausted,
		Message:   "Discount code usage limit reached",
		Details:   fmt.Sprintf("code: %s", code),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOrderCreateFailedError creates a retryable order persistence error.
func NewOrderCreateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOrderCreateFailed,
		Message:   "Failed to create order record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
