package user

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
	constraintStudentsPkey       = "students_pkey"
	constraintStudentsDepartment = "students_department_id_fkey"
)

// StudentColumns selects a student from "users u" joined with its role table.
var StudentColumns = columns("s.student_id", "s.department_id")

// StudentRepository handles student database operations
type StudentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(conn db.DBTX) *StudentRepository {
	return &StudentRepository{db: conn, sb: newBuilder()}
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(StudentColumns...).
		From("students s").
		Join("users u ON u.user_id = s.user_id")
}

// ScanStudent reads a row selected with StudentColumns.
func ScanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	dest := append(userDest(&s.UserFields), &s.StudentID, &s.DepartmentID)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.selectStudents().Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}
	s, err := ScanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return s, nil
}

func (r *StudentRepository) getMany(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := q.OrderBy("s.student_id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := ScanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}

// Create inserts the users row and the students row in one transaction
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.Role = models.RoleStudent
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertUser(ctx, r.sb, tx, &student.UserFields); err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("students").
			Columns("student_id", "user_id", "department_id").
			Values(student.StudentID, student.UserID, student.DepartmentID).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create student SQL")
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			switch {
			case dberrors.IsDuplicateConstraintError(err, constraintStudentsPkey):
				logger.Warn().Str("studentID", student.StudentID).Msg("Attempted to create student with duplicate student ID")
				return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, student.StudentID)
			case dberrors.IsForeignKeyViolation(err, constraintStudentsDepartment):
				return apperrors.ErrDepartmentNotFound
			}
			logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Error executing create student query")
			return fmt.Errorf("error creating student: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a student by student ID
func (r *StudentRepository) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"s.student_id": studentID})
}

// GetByUsername retrieves a student by username
func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"u.username": username})
}

// GetAll retrieves all students ordered by student ID
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	return r.getMany(ctx, r.selectStudents())
}

// GetByDepartmentID retrieves the students of a department
func (r *StudentRepository) GetByDepartmentID(ctx context.Context, departmentID string) ([]*models.Student, error) {
	return r.getMany(ctx, r.selectStudents().Where(squirrel.Eq{"s.department_id": departmentID}))
}

// Update rewrites the profile fields of a student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	found, err := updateProfile(ctx, r.sb, r.db, &student.UserFields,
		squirrel.Expr("user_id = (SELECT user_id FROM students WHERE student_id = ?)", student.StudentID))
	if err != nil {
		return err
	}
	if !found {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// SetDepartment points a student at departmentID, or clears it when departmentID is nil
func (r *StudentRepository) SetDepartment(ctx context.Context, studentID string, departmentID *string) error {
	sql, args, err := r.sb.Update("students").
		Set("department_id", departmentID).
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set student department SQL")
		return fmt.Errorf("failed to build set student department query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, constraintStudentsDepartment) {
			return apperrors.ErrDepartmentNotFound
		}
		return fmt.Errorf("error setting student department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// ClearDepartment detaches every student of a department
func (r *StudentRepository) ClearDepartment(ctx context.Context, departmentID string) (int, error) {
	sql, args, err := r.sb.Update("students").
		Set("department_id", nil).
		Where(squirrel.Eq{"department_id": departmentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building clear student department SQL")
		return 0, fmt.Errorf("failed to build clear student department query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error clearing student department: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Delete removes a student; its enrollments are removed by the foreign key cascade
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	n, err := deleteUsers(ctx, r.sb, r.db,
		squirrel.Expr("user_id IN (SELECT user_id FROM students WHERE student_id = ?)", studentID))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// ExistsByID checks if a student exists
func (r *StudentRepository) ExistsByID(ctx context.Context, studentID string) (bool, error) {
	return exists(ctx, r.db, r.sb.Select("1").From("students").Where(squirrel.Eq{"student_id": studentID}))
}
