package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("submit review: %w", NotFound("Business"))

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrValidation)
	assert.ErrorIs(t, ExpiredCredential(), ErrExpiredCredential)
	assert.NotErrorIs(t, ExpiredCredential(), ErrInvalidCredential)
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{AuthenticationRequired(), http.StatusUnauthorized},
		{InvalidCredential(""), http.StatusUnauthorized},
		{ExpiredCredential(), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{Validation(nil), http.StatusBadRequest},
		{NotFound("Business"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.Status, tt.err.Message)
	}
}

func TestValidationErrorListsEveryField(t *testing.T) {
	err := Validation([]FieldError{
		{Field: "overallRating", Message: "must be between 1 and 5"},
		{Field: "paymentRating", Message: "must be between 1 and 5"},
	})

	assert.Contains(t, err.Error(), "overallRating")
	assert.Contains(t, err.Error(), "paymentRating")
}

func TestFrom(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := From(fmt.Errorf("query: %w", cause))

	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, cause)

	notFound := NotFound("Review")
	assert.Same(t, notFound, From(fmt.Errorf("wrap: %w", notFound)))
}
