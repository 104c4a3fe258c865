package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/dberrors"
	"github.com/yigit/registry/internal/pkg/identifier"
)

const (
	seriesInitSQL   = "INSERT INTO identifier_series (series,last_id) VALUES ($1,$2) ON CONFLICT (series) DO NOTHING"
	seriesLockSQL   = "SELECT last_id FROM identifier_series WHERE series = $1 FOR UPDATE"
	seriesAdvanceSQL = "UPDATE identifier_series SET last_id = $1, updated_at = NOW() WHERE series = $2"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func expectSeries(mock pgxmock.PgxPoolIface, series, last, next string) {
	mock.ExpectExec(regexp.QuoteMeta(seriesInitSQL)).
		WithArgs(series, "").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(regexp.QuoteMeta(seriesLockSQL)).
		WithArgs(series).
		WillReturnRows(pgxmock.NewRows([]string{"last_id"}).AddRow(last))
	mock.ExpectExec(regexp.QuoteMeta(seriesAdvanceSQL)).
		WithArgs(next, series).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
}

func TestSeriesNextLocksRowBeforeAdvancing(t *testing.T) {
	tests := []struct {
		name   string
		series identifier.Series
		last   string
		want   string
	}{
		{"first issue yields seed", identifier.Department, "", "DEP-00001"},
		{"increments last id", identifier.Department, "DEP-00041", "DEP-00042"},
		{"widens on carry", identifier.User, "USER-9999999", "USER-10000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			expectSeries(mock, tt.series.Name, tt.last, tt.want)

			got, err := NewSeriesRepository(mock).Next(context.Background(), tt.series)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSeriesNextRunsInsideTransaction(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	expectSeries(mock, "STD", "STD-0000007", "STD-0000008")
	mock.ExpectCommit()

	var got string
	err := NewRepositories(mock).WithTransaction(context.Background(), func(ctx context.Context, repos *Repositories) error {
		var err error
		got, err = repos.Series.Next(ctx, identifier.Student)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "STD-0000008", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeriesNextRejectsCorruptRow(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(seriesInitSQL)).
		WithArgs("DEP", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(regexp.QuoteMeta(seriesLockSQL)).
		WithArgs("DEP").
		WillReturnRows(pgxmock.NewRows([]string{"last_id"}).AddRow("LEC-00003"))

	_, err := NewSeriesRepository(mock).Next(context.Background(), identifier.Department)
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeriesNextLockFailureRollsBack(t *testing.T) {
	mock := newMock(t)
	lockErr := errors.New("canceling statement due to lock timeout")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(seriesInitSQL)).
		WithArgs("COURSE", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(regexp.QuoteMeta(seriesLockSQL)).
		WithArgs("COURSE").
		WillReturnError(lockErr)
	mock.ExpectRollback()

	err := NewRepositories(mock).WithTransaction(context.Background(), func(ctx context.Context, repos *Repositories) error {
		_, err := repos.Series.Next(ctx, identifier.Course)
		return err
	})
	assert.ErrorIs(t, err, lockErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentAddMapsConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate pair", pgError(dberrors.CodeUniqueViolation, constraintEnrollmentsPkey), apperrors.ErrAlreadyEnrolled},
		{"unknown student", pgError(dberrors.CodeForeignKeyViolation, constraintEnrollmentsStudent), apperrors.ErrStudentNotFound},
		{"unknown course", pgError(dberrors.CodeForeignKeyViolation, constraintEnrollmentsCourse), apperrors.ErrCourseNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec("INSERT INTO enrollments").
				WithArgs("STD-0000001", "COURSE-00001").
				WillReturnError(tt.err)

			err := NewEnrollmentRepository(mock).Add(context.Background(), "STD-0000001", "COURSE-00001")
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentAddPassesThroughOtherErrors(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO enrollments").
		WillReturnError(pgError("40001", ""))

	err := NewEnrollmentRepository(mock).Add(context.Background(), "STD-0000001", "COURSE-00001")
	require.Error(t, err)
	assert.False(t, apperrors.IsConflict(err))
	assert.False(t, apperrors.IsNotFound(err))
}

func TestEnrollmentRemoveWithoutEdge(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("DELETE FROM enrollments").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewEnrollmentRepository(mock).Remove(context.Background(), "STD-0000001", "COURSE-00001")
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentAddDuplicate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO lecturer_courses").
		WillReturnError(pgError(dberrors.CodeUniqueViolation, constraintLecturerCoursesPkey))

	err := NewLecturerCourseRepository(mock).Add(context.Background(), "LEC-00001", "COURSE-00001")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyAssigned)
}

func TestDeleteMapsReferences(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		del      func(conn pgxmock.PgxPoolIface) error
		notFound error
	}{
		{
			name:     "department",
			sql:      "DELETE FROM departments WHERE department_id = $1",
			del:      func(c pgxmock.PgxPoolIface) error { return NewDepartmentRepository(c).Delete(context.Background(), "DEP-00001") },
			notFound: apperrors.ErrDepartmentNotFound,
		},
		{
			name:     "course",
			sql:      "DELETE FROM courses WHERE course_id = $1",
			del:      func(c pgxmock.PgxPoolIface) error { return NewCourseRepository(c).Delete(context.Background(), "COURSE-00001") },
			notFound: apperrors.ErrCourseNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name+" still referenced", func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(regexp.QuoteMeta(tt.sql)).
				WillReturnError(pgError(dberrors.CodeForeignKeyViolation, "students_department_id_fkey"))
			err := tt.del(mock)
			assert.True(t, apperrors.IsConflict(err), "got %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
		t.Run(tt.name+" missing", func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(regexp.QuoteMeta(tt.sql)).
				WillReturnResult(pgxmock.NewResult("DELETE", 0))
			assert.ErrorIs(t, tt.del(mock), tt.notFound)
		})
		t.Run(tt.name+" deleted", func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(regexp.QuoteMeta(tt.sql)).
				WillReturnResult(pgxmock.NewResult("DELETE", 1))
			assert.NoError(t, tt.del(mock))
		})
	}
}
