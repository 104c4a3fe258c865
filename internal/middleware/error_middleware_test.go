package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/registry/internal/app/models/dto"
	"github.com/yigit/registry/internal/pkg/apperrors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"invalid identifier", fmt.Errorf("%w: %q", apperrors.ErrInvalidIdentifier, "x"), http.StatusBadRequest, dto.ErrorCodeInvalidIdentifier, ""},
		{"validation", apperrors.NewBadRequestError("name is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "name is required"},
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"duplicate", apperrors.ErrUsernameAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, ""},
		{"relationship conflict", apperrors.ErrAlreadyEnrolled, http.StatusConflict, dto.ErrorCodeConflict, ""},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, detail.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, detail.Message)
			}
		})
	}
}
