package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/app/repositories/memory"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/identifier"
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, repos *repositories.Repositories) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repos.Departments.Create(ctx, &models.Department{DepartmentID: "DEP-00001", Name: "Computer Engineering"}))
	require.NoError(t, repos.Courses.Create(ctx, &models.Course{CourseID: "COURSE-00001", Name: "Algorithms", DepartmentID: strPtr("DEP-00001")}))
	require.NoError(t, repos.Students.Create(ctx, &models.Student{
		UserFields:   models.UserFields{UserID: "USER-0000001", Username: "ada"},
		StudentID:    "STD-0000001",
		DepartmentID: strPtr("DEP-00001"),
	}))
	require.NoError(t, repos.Lecturers.Create(ctx, &models.Lecturer{
		UserFields: models.UserFields{UserID: "USER-0000002", Username: "grace"},
		LecturerID: "LEC-00001",
	}))
}

func TestCreateEnforcesKeys(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	seed(t, repos)

	err := repos.Students.Create(ctx, &models.Student{
		UserFields: models.UserFields{UserID: "USER-0000009", Username: "ada"},
		StudentID:  "STD-0000009",
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)

	err = repos.Students.Create(ctx, &models.Student{
		UserFields: models.UserFields{UserID: "USER-0000009", Username: "alan"},
		StudentID:  "STD-0000001",
	})
	assert.ErrorIs(t, err, apperrors.ErrIdentifierExists)

	// the failed insert must not leave the username claimed
	exists, err := repos.Users.UsernameExists(ctx, "alan")
	require.NoError(t, err)
	assert.False(t, exists)

	err = repos.Students.Create(ctx, &models.Student{
		UserFields:   models.UserFields{UserID: "USER-0000009", Username: "alan"},
		StudentID:    "STD-0000009",
		DepartmentID: strPtr("DEP-99999"),
	})
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)

	err = repos.Departments.Create(ctx, &models.Department{DepartmentID: "DEP-00002", Name: "Computer Engineering"})
	assert.ErrorIs(t, err, apperrors.ErrDepartmentAlreadyExists)
	assert.True(t, apperrors.IsConflict(err))
}

func TestEdgesAreSymmetric(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	seed(t, repos)

	require.NoError(t, repos.Enrollments.Add(ctx, "STD-0000001", "COURSE-00001"))
	assert.ErrorIs(t, repos.Enrollments.Add(ctx, "STD-0000001", "COURSE-00001"), apperrors.ErrAlreadyEnrolled)
	assert.ErrorIs(t, repos.Enrollments.Add(ctx, "STD-0000404", "COURSE-00001"), apperrors.ErrStudentNotFound)

	courses, err := repos.Enrollments.CoursesForStudent(ctx, "STD-0000001")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "COURSE-00001", courses[0].CourseID)

	students, err := repos.Enrollments.StudentsForCourse(ctx, "COURSE-00001")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "STD-0000001", students[0].StudentID)

	require.NoError(t, repos.Enrollments.Remove(ctx, "STD-0000001", "COURSE-00001"))
	assert.ErrorIs(t, repos.Enrollments.Remove(ctx, "STD-0000001", "COURSE-00001"), apperrors.ErrNotEnrolled)

	require.NoError(t, repos.Assignments.Add(ctx, "LEC-00001", "COURSE-00001"))
	assert.ErrorIs(t, repos.Assignments.Add(ctx, "LEC-00001", "COURSE-00001"), apperrors.ErrAlreadyAssigned)
	lecturers, err := repos.Assignments.LecturersForCourse(ctx, "COURSE-00001")
	require.NoError(t, err)
	require.Len(t, lecturers, 1)
}

func TestDeleteRespectsReferences(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	seed(t, repos)
	require.NoError(t, repos.Enrollments.Add(ctx, "STD-0000001", "COURSE-00001"))

	assert.True(t, apperrors.IsConflict(repos.Departments.Delete(ctx, "DEP-00001")))
	assert.True(t, apperrors.IsConflict(repos.Courses.Delete(ctx, "COURSE-00001")))

	// deleting the student drops its enrollments and frees the username
	require.NoError(t, repos.Students.Delete(ctx, "STD-0000001"))
	students, err := repos.Enrollments.StudentsForCourse(ctx, "COURSE-00001")
	require.NoError(t, err)
	assert.Empty(t, students)
	exists, err := repos.Users.UsernameExists(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repos.Courses.Delete(ctx, "COURSE-00001"))
	assert.ErrorIs(t, repos.Courses.Delete(ctx, "COURSE-00001"), apperrors.ErrCourseNotFound)
	require.NoError(t, repos.Departments.Delete(ctx, "DEP-00001"))
}

func TestSetDepartmentKeepsReferenceOnFailure(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	seed(t, repos)

	err := repos.Students.SetDepartment(ctx, "STD-0000001", strPtr("DEP-00404"))
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)

	s, err := repos.Students.GetByID(ctx, "STD-0000001")
	require.NoError(t, err)
	require.NotNil(t, s.DepartmentID)
	assert.Equal(t, "DEP-00001", *s.DepartmentID)

	n, err := repos.Students.ClearDepartment(ctx, "DEP-00001")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	s, err = repos.Students.GetByID(ctx, "STD-0000001")
	require.NoError(t, err)
	assert.Nil(t, s.DepartmentID)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	seed(t, repos)

	s, err := repos.Students.GetByID(ctx, "STD-0000001")
	require.NoError(t, err)
	s.FirstName = "changed"
	*s.DepartmentID = "DEP-77777"

	again, err := repos.Students.GetByID(ctx, "STD-0000001")
	require.NoError(t, err)
	assert.Empty(t, again.FirstName)
	assert.Equal(t, "DEP-00001", *again.DepartmentID)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	seed(t, repos)
	boom := errors.New("boom")

	err := repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		id, err := tx.Series.Next(ctx, identifier.Department)
		require.NoError(t, err)
		require.NoError(t, tx.Departments.Create(ctx, &models.Department{DepartmentID: id, Name: "Physics"}))
		require.NoError(t, tx.Enrollments.Add(ctx, "STD-0000001", "COURSE-00001"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repos.Departments.GetByName(ctx, "Physics")
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
	ok, err := repos.Enrollments.Exists(ctx, "STD-0000001", "COURSE-00001")
	require.NoError(t, err)
	assert.False(t, ok)

	// the series did not advance either
	id, err := repos.Series.Next(ctx, identifier.Department)
	require.NoError(t, err)
	assert.Equal(t, identifier.Department.Seed, id)
}

func TestTransactionCommits(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	seed(t, repos)

	err := repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if err := tx.Enrollments.Add(ctx, "STD-0000001", "COURSE-00001"); err != nil {
			return err
		}
		// a failing statement inside the transaction leaves earlier ones in place
		assert.ErrorIs(t, tx.Enrollments.Add(ctx, "STD-0000001", "COURSE-00001"), apperrors.ErrAlreadyEnrolled)
		return tx.Assignments.Add(ctx, "LEC-00001", "COURSE-00001")
	})
	require.NoError(t, err)

	ok, err := repos.Enrollments.Exists(ctx, "STD-0000001", "COURSE-00001")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.Assignments.Exists(ctx, "LEC-00001", "COURSE-00001")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeriesIssuesInOrder(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()

	first, err := repos.Series.Next(ctx, identifier.Student)
	require.NoError(t, err)
	second, err := repos.Series.Next(ctx, identifier.Student)
	require.NoError(t, err)
	course, err := repos.Series.Next(ctx, identifier.Course)
	require.NoError(t, err)

	assert.Equal(t, "STD-0000001", first)
	assert.Equal(t, "STD-0000002", second)
	assert.Equal(t, "COURSE-00001", course)
}

func TestMoveDepartment(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	seed(t, repos)
	require.NoError(t, repos.Departments.Create(ctx, &models.Department{DepartmentID: "DEP-00002", Name: "Mathematics"}))

	_, err := repos.Courses.MoveDepartment(ctx, "DEP-00001", "DEP-00404")
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)

	moved, err := repos.Courses.MoveDepartment(ctx, "DEP-00001", "DEP-00002")
	require.NoError(t, err)
	assert.Equal(t, []string{"COURSE-00001"}, moved)

	courses, err := repos.Courses.GetByDepartmentID(ctx, "DEP-00002")
	require.NoError(t, err)
	require.Len(t, courses, 1)
}
