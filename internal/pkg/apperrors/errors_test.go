package apperrors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/registry/internal/pkg/apperrors"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
		conflict bool
		badInput bool
	}{
		{"student not found", apperrors.ErrStudentNotFound, true, false, false},
		{"wrapped department not found", fmt.Errorf("assign: %w", apperrors.ErrDepartmentNotFound), true, false, false},
		{"already enrolled", apperrors.ErrAlreadyEnrolled, false, true, false},
		{"not enrolled", apperrors.ErrNotEnrolled, false, true, false},
		{"username taken", apperrors.ErrUsernameAlreadyExists, false, true, false},
		{"invalid identifier", apperrors.ErrInvalidIdentifier, false, false, true},
		{"custom conflict", apperrors.NewConflictError("taken"), false, true, false},
		{"custom bad request", apperrors.NewBadRequestError("bad"), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, apperrors.IsNotFound(tt.err))
			assert.Equal(t, tt.conflict, apperrors.IsConflict(tt.err))
			assert.Equal(t, tt.badInput, apperrors.IsInvalidInput(tt.err))
		})
	}
}

func TestCustomError(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrCourseNotFound, "course COURSE-00009 not found").
		WithCode("RES_001").
		WithDetails(map[string]interface{}{"courseId": "COURSE-00009"})

	assert.Equal(t, "course COURSE-00009 not found", err.Error())
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "RES_001", err.Code)
	assert.Equal(t, "COURSE-00009", err.Details["courseId"])
}
