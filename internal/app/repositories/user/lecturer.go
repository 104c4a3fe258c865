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
	constraintLecturersPkey       = "lecturers_pkey"
	constraintLecturersDepartment = "lecturers_department_id_fkey"
)

// LecturerColumns selects a lecturer from "users u" joined with its role table.
var LecturerColumns = columns("l.lecturer_id", "l.is_lic", "l.department_id")

// LecturerRepository handles lecturer database operations
type LecturerRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewLecturerRepository creates a new LecturerRepository
func NewLecturerRepository(conn db.DBTX) *LecturerRepository {
	return &LecturerRepository{db: conn, sb: newBuilder()}
}

func (r *LecturerRepository) selectLecturers() squirrel.SelectBuilder {
	return r.sb.Select(LecturerColumns...).
		From("lecturers l").
		Join("users u ON u.user_id = l.user_id")
}

// ScanLecturer reads a row selected with LecturerColumns.
func ScanLecturer(row pgx.Row) (*models.Lecturer, error) {
	var l models.Lecturer
	dest := append(userDest(&l.UserFields), &l.LecturerID, &l.IsLIC, &l.DepartmentID)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LecturerRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Lecturer, error) {
	sql, args, err := r.selectLecturers().Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get lecturer SQL")
		return nil, fmt.Errorf("failed to build get lecturer query: %w", err)
	}
	l, err := ScanLecturer(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLecturerNotFound
		}
		return nil, fmt.Errorf("error retrieving lecturer: %w", err)
	}
	return l, nil
}

func (r *LecturerRepository) getMany(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Lecturer, error) {
	sql, args, err := q.OrderBy("l.lecturer_id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list lecturers SQL")
		return nil, fmt.Errorf("failed to build list lecturers query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing lecturers: %w", err)
	}
	defer rows.Close()

	lecturers := []*models.Lecturer{}
	for rows.Next() {
		l, err := ScanLecturer(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning lecturer: %w", err)
		}
		lecturers = append(lecturers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lecturers: %w", err)
	}
	return lecturers, nil
}

// Create inserts the users row and the lecturers row in one transaction
func (r *LecturerRepository) Create(ctx context.Context, lecturer *models.Lecturer) error {
	lecturer.Role = models.RoleLecturer
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertUser(ctx, r.sb, tx, &lecturer.UserFields); err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("lecturers").
			Columns("lecturer_id", "user_id", "is_lic", "department_id").
			Values(lecturer.LecturerID, lecturer.UserID, lecturer.IsLIC, lecturer.DepartmentID).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create lecturer SQL")
			return fmt.Errorf("failed to build create lecturer query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			switch {
			case dberrors.IsDuplicateConstraintError(err, constraintLecturersPkey):
				logger.Warn().Str("lecturerID", lecturer.LecturerID).Msg("Attempted to create lecturer with duplicate lecturer ID")
				return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, lecturer.LecturerID)
			case dberrors.IsForeignKeyViolation(err, constraintLecturersDepartment):
				return apperrors.ErrDepartmentNotFound
			}
			logger.Error().Err(err).Str("lecturerID", lecturer.LecturerID).Msg("Error executing create lecturer query")
			return fmt.Errorf("error creating lecturer: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a lecturer by lecturer ID
func (r *LecturerRepository) GetByID(ctx context.Context, lecturerID string) (*models.Lecturer, error) {
	return r.getOne(ctx, squirrel.Eq{"l.lecturer_id": lecturerID})
}

// GetByUsername retrieves a lecturer by username
func (r *LecturerRepository) GetByUsername(ctx context.Context, username string) (*models.Lecturer, error) {
	return r.getOne(ctx, squirrel.Eq{"u.username": username})
}

// GetAll retrieves all lecturers ordered by lecturer ID
func (r *LecturerRepository) GetAll(ctx context.Context) ([]*models.Lecturer, error) {
	return r.getMany(ctx, r.selectLecturers())
}

// GetByDepartmentID retrieves the lecturers of a department
func (r *LecturerRepository) GetByDepartmentID(ctx context.Context, departmentID string) ([]*models.Lecturer, error) {
	return r.getMany(ctx, r.selectLecturers().Where(squirrel.Eq{"l.department_id": departmentID}))
}

// Update rewrites the profile fields of a lecturer
func (r *LecturerRepository) Update(ctx context.Context, lecturer *models.Lecturer) error {
	found, err := updateProfile(ctx, r.sb, r.db, &lecturer.UserFields,
		squirrel.Expr("user_id = (SELECT user_id FROM lecturers WHERE lecturer_id = ?)", lecturer.LecturerID))
	if err != nil {
		return err
	}
	if !found {
		return apperrors.ErrLecturerNotFound
	}
	return nil
}

// SetDepartment points a lecturer at departmentID, or clears it when departmentID is nil
func (r *LecturerRepository) SetDepartment(ctx context.Context, lecturerID string, departmentID *string) error {
	sql, args, err := r.sb.Update("lecturers").
		Set("department_id", departmentID).
		Where(squirrel.Eq{"lecturer_id": lecturerID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set lecturer department SQL")
		return fmt.Errorf("failed to build set lecturer department query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, constraintLecturersDepartment) {
			return apperrors.ErrDepartmentNotFound
		}
		return fmt.Errorf("error setting lecturer department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLecturerNotFound
	}
	return nil
}

// ClearDepartment detaches every lecturer of a department
func (r *LecturerRepository) ClearDepartment(ctx context.Context, departmentID string) (int, error) {
	sql, args, err := r.sb.Update("lecturers").
		Set("department_id", nil).
		Where(squirrel.Eq{"department_id": departmentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building clear lecturer department SQL")
		return 0, fmt.Errorf("failed to build clear lecturer department query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error clearing lecturer department: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Delete removes a lecturer; its course assignments are removed by the foreign key cascade
func (r *LecturerRepository) Delete(ctx context.Context, lecturerID string) error {
	n, err := deleteUsers(ctx, r.sb, r.db,
		squirrel.Expr("user_id IN (SELECT user_id FROM lecturers WHERE lecturer_id = ?)", lecturerID))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrLecturerNotFound
	}
	return nil
}

// SetLIC sets the lecturer-in-charge flag
func (r *LecturerRepository) SetLIC(ctx context.Context, lecturerID string, isLIC bool) error {
	sql, args, err := r.sb.Update("lecturers").
		Set("is_lic", isLIC).
		Where(squirrel.Eq{"lecturer_id": lecturerID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set LIC SQL")
		return fmt.Errorf("failed to build set LIC query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting LIC flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLecturerNotFound
	}
	return nil
}

// ExistsByID checks if a lecturer exists
func (r *LecturerRepository) ExistsByID(ctx context.Context, lecturerID string) (bool, error) {
	return exists(ctx, r.db, r.sb.Select("1").From("lecturers").Where(squirrel.Eq{"lecturer_id": lecturerID}))
}
