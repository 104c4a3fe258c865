package services

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/pkg/apperrors"
)

func TestCourseViewReadsInOneTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := New(repositories.NewRepositories(mock), nil, Options{})
	now := time.Now()
	dep := "DEP-00001"

	mock.ExpectBegin()
	mock.ExpectQuery("FROM courses c").
		WithArgs("COURSE-00001").
		WillReturnRows(pgxmock.NewRows([]string{"course_id", "name", "department_id", "created_at", "updated_at"}).
			AddRow("COURSE-00001", "Algorithms", &dep, now, now))
	mock.ExpectQuery("FROM enrollments e").
		WithArgs("COURSE-00001").
		WillReturnRows(pgxmock.NewRows([]string{"student_id"}))
	mock.ExpectQuery("FROM lecturer_courses lc").
		WithArgs("COURSE-00001").
		WillReturnRows(pgxmock.NewRows([]string{"lecturer_id"}))
	mock.ExpectCommit()

	view, err := svc.Courses.View(context.Background(), "COURSE-00001")
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", view.Name)
	assert.Empty(t, view.Students)
	assert.Empty(t, view.Lecturers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseViewRollsBackOnMissingCourse(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := New(repositories.NewRepositories(mock), nil, Options{})

	mock.ExpectBegin()
	mock.ExpectQuery("FROM courses c").
		WithArgs("COURSE-00404").
		WillReturnRows(pgxmock.NewRows([]string{"course_id", "name", "department_id", "created_at", "updated_at"}))
	mock.ExpectRollback()

	_, err = svc.Courses.View(context.Background(), "COURSE-00404")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
