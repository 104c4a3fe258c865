package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/db"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/dberrors"
	"github.com/yigit/registry/internal/pkg/logger"
)

const (
	constraintCoursesPkey       = "courses_pkey"
	constraintCoursesNameKey    = "courses_name_key"
	constraintCoursesDepartment = "courses_department_id_fkey"
)

var courseColumns = []string{"c.course_id", "c.name", "c.department_id", "c.created_at", "c.updated_at"}

func scanCourse(row scanner) (*models.Course, error) {
	var c models.Course
	if err := row.Scan(&c.CourseID, &c.Name, &c.DepartmentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func queryCourses(ctx context.Context, conn db.DBTX, q squirrel.SelectBuilder) ([]*models.Course, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// PostgresCourseRepository handles database operations for courses
type PostgresCourseRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(conn db.DBTX) *PostgresCourseRepository {
	return &PostgresCourseRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func classifyCourseWrite(err error, course *models.Course) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, constraintCoursesNameKey):
		return apperrors.ErrCourseAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, constraintCoursesPkey):
		return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, course.CourseID)
	case dberrors.IsForeignKeyViolation(err, constraintCoursesDepartment):
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}

// Create creates a new course
func (r *PostgresCourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("course_id", "name", "department_id").
		Values(course.CourseID, course.Name, course.DepartmentID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.CreatedAt, &course.UpdatedAt); err != nil {
		if classified := classifyCourseWrite(err, course); classified != nil {
			return classified
		}
		logger.Error().Err(err).Str("courseID", course.CourseID).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

func (r *PostgresCourseRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).From("courses c").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	c, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return c, nil
}

// GetByID retrieves a course by ID
func (r *PostgresCourseRepository) GetByID(ctx context.Context, courseID string) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"c.course_id": courseID})
}

// GetByName retrieves a course by its unique name
func (r *PostgresCourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"c.name": name})
}

// GetAll retrieves all courses
func (r *PostgresCourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	return queryCourses(ctx, r.db, r.sb.Select(courseColumns...).From("courses c").OrderBy("c.course_id"))
}

// GetByDepartmentID retrieves the courses owned by a department
func (r *PostgresCourseRepository) GetByDepartmentID(ctx context.Context, departmentID string) ([]*models.Course, error) {
	return queryCourses(ctx, r.db, r.sb.Select(courseColumns...).
		From("courses c").
		Where(squirrel.Eq{"c.department_id": departmentID}).
		OrderBy("c.course_id"))
}

// Update updates name and department of a course
func (r *PostgresCourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("name", course.Name).
		Set("department_id", course.DepartmentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"course_id": course.CourseID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.CreatedAt, &course.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrCourseNotFound
		}
		if classified := classifyCourseWrite(err, course); classified != nil {
			return classified
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	return nil
}

// MoveDepartment reassigns every course of one department to another
func (r *PostgresCourseRepository) MoveDepartment(ctx context.Context, from, to string) ([]string, error) {
	sql, args, err := r.sb.Update("courses").
		Set("department_id", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"department_id": from}).
		Suffix("RETURNING course_id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building move courses SQL")
		return nil, fmt.Errorf("failed to build move courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error moving courses: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, constraintCoursesDepartment) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error moving courses: %w", err)
	}
	return ids, nil
}

// Delete deletes a course row
func (r *PostgresCourseRepository) Delete(ctx context.Context, courseID string) error {
	sql, args, err := r.sb.Delete("courses").Where(squirrel.Eq{"course_id": courseID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "") {
			return apperrors.NewConflictError("course still has enrollments or lecturers")
		}
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// ExistsByID checks if a course exists
func (r *PostgresCourseRepository) ExistsByID(ctx context.Context, courseID string) (bool, error) {
	return existsQuery(ctx, r.db, r.sb.Select("1").From("courses").Where(squirrel.Eq{"course_id": courseID}))
}
