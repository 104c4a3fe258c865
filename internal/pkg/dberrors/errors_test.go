package dberrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/registry/internal/pkg/dberrors"
)

func TestClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "enrollments_course_id_fkey"}
	other := errors.New("connection reset")

	assert.True(t, dberrors.IsDuplicateConstraintError(unique, "users_username_key"))
	assert.False(t, dberrors.IsDuplicateConstraintError(unique, "students_pkey"))
	assert.True(t, dberrors.IsUniqueViolation(unique))
	assert.False(t, dberrors.IsUniqueViolation(fk))

	assert.True(t, dberrors.IsForeignKeyViolation(fk, ""))
	assert.True(t, dberrors.IsForeignKeyViolation(fk, "enrollments_course_id_fkey"))
	assert.False(t, dberrors.IsForeignKeyViolation(fk, "enrollments_student_id_fkey"))
	assert.False(t, dberrors.IsForeignKeyViolation(other, ""))

	assert.Equal(t, "users_username_key", dberrors.ConstraintName(unique))
	assert.Equal(t, "", dberrors.ConstraintName(other))
}
