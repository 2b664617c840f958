package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/feral-file/habitat-tracker/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeServiceError  ErrorCode = "service_error"
	ErrCodeTimeout       ErrorCode = "timeout"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewServiceError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeServiceError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewTimeoutError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeTimeout,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// FromError classifies a query error into an HTTP status and API error.
// Upstream and decoding failures are service errors; anything unrecognised is internal.
func FromError(err error) (int, *APIError) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return statusOf(apiErr.Code), apiErr
	case errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest, NewBadRequestError("Invalid address", err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, NewNotFoundError("Account not found", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewTimeoutError("Query timed out")
	case errors.Is(err, domain.ErrFetchFailure):
		return http.StatusBadGateway, NewServiceError("Failed to fetch accounts", err.Error())
	case errors.Is(err, domain.ErrTruncatedBuffer),
		errors.Is(err, domain.ErrSchemaMismatch),
		errors.Is(err, domain.ErrDerivationExhausted),
		errors.Is(err, domain.ErrMaxSeedLength):
		return http.StatusBadGateway, NewServiceError("Failed to decode accounts", err.Error())
	default:
		return http.StatusInternalServerError, NewInternalError("Internal server error")
	}
}

func statusOf(code ErrorCode) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeServiceError:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
