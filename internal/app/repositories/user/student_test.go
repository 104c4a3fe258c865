package user

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/dberrors"
)

func newStudent() *models.Student {
	return &models.Student{
		UserFields: models.UserFields{UserID: "USER-0000001", Username: "ada", PasswordHash: "hash"},
		StudentID:  "STD-0000001",
	}
}

func TestStudentCreateWritesBothRowsInOneTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	s := newStudent()
	require.NoError(t, NewStudentRepository(mock).Create(context.Background(), s))
	assert.Equal(t, models.RoleStudent, s.Role)
	assert.Equal(t, now, s.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentCreateMapsUserConstraints(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"taken username", constraintUsernameKey, apperrors.ErrUsernameAlreadyExists},
		{"reused user id", constraintUsersPkey, apperrors.ErrIdentifierExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO users").
				WillReturnError(&pgconn.PgError{Code: dberrors.CodeUniqueViolation, ConstraintName: tt.constraint})
			mock.ExpectRollback()

			err = NewStudentRepository(mock).Create(context.Background(), newStudent())
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStudentCreateUnknownDepartmentRollsBackUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("INSERT INTO students").
		WillReturnError(&pgconn.PgError{Code: dberrors.CodeForeignKeyViolation, ConstraintName: constraintStudentsDepartment})
	mock.ExpectRollback()

	err = NewStudentRepository(mock).Create(context.Background(), newStudent())
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
