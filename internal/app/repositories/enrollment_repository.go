package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories/user"
	"github.com/yigit/registry/internal/db"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/dberrors"
	"github.com/yigit/registry/internal/pkg/logger"
)

const (
	constraintEnrollmentsPkey    = "enrollments_pkey"
	constraintEnrollmentsStudent = "enrollments_student_id_fkey"
	constraintEnrollmentsCourse  = "enrollments_course_id_fkey"
)

// PostgresEnrollmentRepository handles the enrollments edge table. Each row is one Student-Course
// edge; both directions of the association are read from it.
type PostgresEnrollmentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new PostgresEnrollmentRepository
func NewEnrollmentRepository(conn db.DBTX) *PostgresEnrollmentRepository {
	return &PostgresEnrollmentRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add inserts an enrollment edge. The composite primary key rejects a second insert of the
// same pair even when two transactions race.
func (r *PostgresEnrollmentRepository) Add(ctx context.Context, studentID, courseID string) error {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("student_id", "course_id").
		Values(studentID, courseID).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add enrollment SQL")
		return fmt.Errorf("failed to build add enrollment query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintEnrollmentsPkey):
			return apperrors.ErrAlreadyEnrolled
		case dberrors.IsForeignKeyViolation(err, constraintEnrollmentsStudent):
			return apperrors.ErrStudentNotFound
		case dberrors.IsForeignKeyViolation(err, constraintEnrollmentsCourse):
			return apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Str("courseID", courseID).Msg("Error executing add enrollment query")
		return fmt.Errorf("error adding enrollment: %w", err)
	}
	return nil
}

// Remove deletes an enrollment edge
func (r *PostgresEnrollmentRepository) Remove(ctx context.Context, studentID, courseID string) error {
	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove enrollment SQL")
		return fmt.Errorf("failed to build remove enrollment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error removing enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotEnrolled
	}
	return nil
}

// Exists checks if a student is enrolled in a course
func (r *PostgresEnrollmentRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	return existsQuery(ctx, r.db, r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}))
}

// CoursesForStudent lists the courses a student is enrolled in, oldest enrollment first
func (r *PostgresEnrollmentRepository) CoursesForStudent(ctx context.Context, studentID string) ([]*models.Course, error) {
	return queryCourses(ctx, r.db, r.sb.Select(courseColumns...).
		From("enrollments e").
		Join("courses c ON c.course_id = e.course_id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("e.created_at", "c.course_id"))
}

// StudentsForCourse lists the students enrolled in a course, oldest enrollment first
func (r *PostgresEnrollmentRepository) StudentsForCourse(ctx context.Context, courseID string) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(user.StudentColumns...).
		From("enrollments e").
		Join("students s ON s.student_id = e.student_id").
		Join("users u ON u.user_id = s.user_id").
		Where(squirrel.Eq{"e.course_id": courseID}).
		OrderBy("e.created_at", "s.student_id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building course students SQL")
		return nil, fmt.Errorf("failed to build course students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing course students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := user.ScanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// DeleteByStudent removes every enrollment of a student
func (r *PostgresEnrollmentRepository) DeleteByStudent(ctx context.Context, studentID string) (int, error) {
	return r.deleteWhere(ctx, squirrel.Eq{"student_id": studentID})
}

// DeleteByCourse removes every enrollment in a course
func (r *PostgresEnrollmentRepository) DeleteByCourse(ctx context.Context, courseID string) (int, error) {
	return r.deleteWhere(ctx, squirrel.Eq{"course_id": courseID})
}

func (r *PostgresEnrollmentRepository) deleteWhere(ctx context.Context, where squirrel.Eq) (int, error) {
	sql, args, err := r.sb.Delete("enrollments").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete enrollments SQL")
		return 0, fmt.Errorf("failed to build delete enrollments query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting enrollments: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
