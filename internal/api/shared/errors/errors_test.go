package errors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "github.com/feral-file/habitat-tracker/internal/api/shared/errors"
	"github.com/feral-file/habitat-tracker/internal/domain"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apierrors.ErrorCode
	}{
		{"invalid address", domain.ErrInvalidAddress, http.StatusBadRequest, apierrors.ErrCodeBadRequest},
		{"account not found", fmt.Errorf("player: %w", domain.ErrAccountNotFound), http.StatusNotFound, apierrors.ErrCodeNotFound},
		{"fetch failure", fmt.Errorf("%w: 503", domain.ErrFetchFailure), http.StatusBadGateway, apierrors.ErrCodeServiceError},
		{"truncated buffer", domain.ErrTruncatedBuffer, http.StatusBadGateway, apierrors.ErrCodeServiceError},
		{"schema mismatch", domain.ErrSchemaMismatch, http.StatusBadGateway, apierrors.ErrCodeServiceError},
		{"derivation exhausted", domain.ErrDerivationExhausted, http.StatusBadGateway, apierrors.ErrCodeServiceError},
		{"max seed length", domain.ErrMaxSeedLength, http.StatusBadGateway, apierrors.ErrCodeServiceError},
		{"timeout inside fetch failure", fmt.Errorf("%w: %w", domain.ErrFetchFailure, context.DeadlineExceeded), http.StatusGatewayTimeout, apierrors.ErrCodeTimeout},
		{"api error", apierrors.NewValidationError("landlord: is required"), http.StatusBadRequest, apierrors.ErrCodeValidationFailed},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, apierrors.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := apierrors.FromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestFromError_HidesInternalDetails(t *testing.T) {
	_, apiErr := apierrors.FromError(errors.New("dial tcp 10.0.0.1:5432: secret"))
	assert.Empty(t, apiErr.Details)
}

func TestAPIError_Error(t *testing.T) {
	err := apierrors.NewNotFoundError("Session not found")
	assert.JSONEq(t, `{"code":"not_found","message":"Session not found"}`, err.Error())
}
