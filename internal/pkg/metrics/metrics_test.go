package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/pkg/apperrors"
)

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "not_found", Result(apperrors.ErrCourseNotFound))
	assert.Equal(t, "conflict", Result(apperrors.ErrAlreadyEnrolled))
	assert.Equal(t, "conflict", Result(apperrors.ErrUsernameAlreadyExists))
	assert.Equal(t, "invalid", Result(apperrors.ErrInvalidIdentifier))
	assert.Equal(t, "unauthorized", Result(apperrors.ErrInvalidCredentials))
	assert.Equal(t, "error", Result(fmt.Errorf("boom")))
}

func TestRecordRelationshipChange(t *testing.T) {
	c := RelationshipChanges.WithLabelValues(RelationEnrollment, ActionAdd, "conflict")
	before := testutil.ToFloat64(c)
	RecordRelationshipChange(RelationEnrollment, ActionAdd, apperrors.ErrAlreadyEnrolled)
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordDepartmentCascade(t *testing.T) {
	adopted := CascadeDependents.WithLabelValues("course_adopted")
	orphaned := CascadeDependents.WithLabelValues("student_orphaned")
	beforeAdopted, beforeOrphaned := testutil.ToFloat64(adopted), testutil.ToFloat64(orphaned)

	RecordDepartmentCascade(&models.CascadeReport{
		OrphanedStudents: 3,
		AdoptedCourses:   []string{"COURSE-00001", "COURSE-00002"},
	})

	assert.Equal(t, beforeAdopted+2, testutil.ToFloat64(adopted))
	assert.Equal(t, beforeOrphaned+3, testutil.ToFloat64(orphaned))
}

func TestRecordHttpRequest(t *testing.T) {
	c := HttpRequestsTotal.WithLabelValues("GET", "/api/v1/students/:id", "200")
	before := testutil.ToFloat64(c)
	RecordHttpRequest("GET", "/api/v1/students/:id", "200", 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
