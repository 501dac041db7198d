package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactories_StatusAndCode(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NewValidation("bad"), CodeValidation, http.StatusBadRequest},
		{NewFieldValidation("email", "bad"), CodeValidation, http.StatusBadRequest},
		{NewNotFound("city", 3), CodeNotFound, http.StatusNotFound},
		{NewConflict("taken"), CodeConflict, http.StatusConflict},
		{NewDuplicate("customer", "email", nil), CodeDuplicate, http.StatusConflict},
		{NewReferential("country", 1, "cities"), CodeReferential, http.StatusConflict},
		{NewUnauthorized("no"), CodeUnauthorized, http.StatusUnauthorized},
		{NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, GetHTTPStatus(tt.err))
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create customer: %w", NewDuplicate("customer", "taxId", "123"))

	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsReferential(wrapped))
	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "taxId", appErr.Field())
	assert.Equal(t, "123", appErr.Details["value"])

	assert.True(t, IsReferential(fmt.Errorf("x: %w", NewReferential("tour package", 2, "reservations"))))
	assert.True(t, IsNotFound(NewNotFound("city", 1)))
	assert.True(t, IsValidation(NewFieldValidation("name", "short")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestAppError_MessageAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause).WithDetail("entity", "city")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL_ERROR: Internal server error (caused by: connection reset)", err.Error())
	assert.Equal(t, "city", err.Details["entity"])
	assert.Equal(t, "", NewValidation("x").Field())
	assert.Equal(t, "country is referenced by existing cities", NewReferential("country", 1, "cities").Message)
}
