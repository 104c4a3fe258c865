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
	constraintLecturerCoursesPkey     = "lecturer_courses_pkey"
	constraintLecturerCoursesLecturer = "lecturer_courses_lecturer_id_fkey"
	constraintLecturerCoursesCourse   = "lecturer_courses_course_id_fkey"
)

// LecturerCourseRepository handles the lecturer_courses edge table, one row per
// Lecturer-Course assignment.
type LecturerCourseRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewLecturerCourseRepository creates a new LecturerCourseRepository
func NewLecturerCourseRepository(conn db.DBTX) *LecturerCourseRepository {
	return &LecturerCourseRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add inserts an assignment edge. The composite primary key rejects a second insert of the
// same pair even when two transactions race.
func (r *LecturerCourseRepository) Add(ctx context.Context, lecturerID, courseID string) error {
	sql, args, err := r.sb.Insert("lecturer_courses").
		Columns("lecturer_id", "course_id").
		Values(lecturerID, courseID).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add assignment SQL")
		return fmt.Errorf("failed to build add assignment query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintLecturerCoursesPkey):
			return apperrors.ErrAlreadyAssigned
		case dberrors.IsForeignKeyViolation(err, constraintLecturerCoursesLecturer):
			return apperrors.ErrLecturerNotFound
		case dberrors.IsForeignKeyViolation(err, constraintLecturerCoursesCourse):
			return apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("lecturerID", lecturerID).Str("courseID", courseID).Msg("Error executing add assignment query")
		return fmt.Errorf("error adding assignment: %w", err)
	}
	return nil
}

// Remove deletes an assignment edge
func (r *LecturerCourseRepository) Remove(ctx context.Context, lecturerID, courseID string) error {
	sql, args, err := r.sb.Delete("lecturer_courses").
		Where(squirrel.Eq{"lecturer_id": lecturerID, "course_id": courseID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove assignment SQL")
		return fmt.Errorf("failed to build remove assignment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error removing assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotAssigned
	}
	return nil
}

// Exists checks if a lecturer is assigned to a course
func (r *LecturerCourseRepository) Exists(ctx context.Context, lecturerID, courseID string) (bool, error) {
	return existsQuery(ctx, r.db, r.sb.Select("1").
		From("lecturer_courses").
		Where(squirrel.Eq{"lecturer_id": lecturerID, "course_id": courseID}))
}

// CoursesForLecturer lists the courses a lecturer is assigned to, oldest assignment first
func (r *LecturerCourseRepository) CoursesForLecturer(ctx context.Context, lecturerID string) ([]*models.Course, error) {
	return queryCourses(ctx, r.db, r.sb.Select(courseColumns...).
		From("lecturer_courses lc").
		Join("courses c ON c.course_id = lc.course_id").
		Where(squirrel.Eq{"lc.lecturer_id": lecturerID}).
		OrderBy("lc.created_at", "c.course_id"))
}

// LecturersForCourse lists the lecturers assigned to a course, oldest assignment first
func (r *LecturerCourseRepository) LecturersForCourse(ctx context.Context, courseID string) ([]*models.Lecturer, error) {
	sql, args, err := r.sb.Select(user.LecturerColumns...).
		From("lecturer_courses lc").
		Join("lecturers l ON l.lecturer_id = lc.lecturer_id").
		Join("users u ON u.user_id = l.user_id").
		Where(squirrel.Eq{"lc.course_id": courseID}).
		OrderBy("lc.created_at", "l.lecturer_id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building course lecturers SQL")
		return nil, fmt.Errorf("failed to build course lecturers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing course lecturers: %w", err)
	}
	defer rows.Close()

	lecturers := []*models.Lecturer{}
	for rows.Next() {
		l, err := user.ScanLecturer(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning lecturer: %w", err)
		}
		lecturers = append(lecturers, l)
	}
	return lecturers, rows.Err()
}

// DeleteByLecturer removes every assignment of a lecturer
func (r *LecturerCourseRepository) DeleteByLecturer(ctx context.Context, lecturerID string) (int, error) {
	return r.deleteWhere(ctx, squirrel.Eq{"lecturer_id": lecturerID})
}

// DeleteByCourse removes every assignment of a course
func (r *LecturerCourseRepository) DeleteByCourse(ctx context.Context, courseID string) (int, error) {
	return r.deleteWhere(ctx, squirrel.Eq{"course_id": courseID})
}

func (r *LecturerCourseRepository) deleteWhere(ctx context.Context, where squirrel.Eq) (int, error) {
	sql, args, err := r.sb.Delete("lecturer_courses").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete assignments SQL")
		return 0, fmt.Errorf("failed to build delete assignments query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting assignments: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
