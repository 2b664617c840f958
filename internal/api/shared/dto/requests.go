package dto

import (
	apierrors "github.com/feral-file/habitat-tracker/internal/api/shared/errors"
	"github.com/feral-file/habitat-tracker/internal/validation"
)

// SubmitQueryRequest represents the request body for submitting a landlord query to a session
type SubmitQueryRequest struct {
	Landlord string `json:"landlord" validate:"required,address"`
}

// Validate validates the request body
func (r *SubmitQueryRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return apierrors.NewValidationError(validation.Describe(err)...)
	}
	return nil
}
