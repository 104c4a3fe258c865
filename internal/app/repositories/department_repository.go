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
	constraintDepartmentsPkey    = "departments_pkey"
	constraintDepartmentsNameKey = "departments_name_key"
)

// PostgresDepartmentRepository handles database operations for departments
type PostgresDepartmentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(conn db.DBTX) *PostgresDepartmentRepository {
	return &PostgresDepartmentRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var departmentColumns = []string{"department_id", "name", "description", "created_at", "updated_at"}

func scanDepartment(row scanner) (*models.Department, error) {
	var d models.Department
	if err := row.Scan(&d.DepartmentID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create creates a new department
func (r *PostgresDepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	sql, args, err := r.sb.Insert("departments").
		Columns("department_id", "name", "description").
		Values(department.DepartmentID, department.Name, department.Description).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create department SQL")
		return fmt.Errorf("failed to build create department query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&department.CreatedAt, &department.UpdatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintDepartmentsNameKey):
			return apperrors.ErrDepartmentAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, constraintDepartmentsPkey):
			return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, department.DepartmentID)
		}
		logger.Error().Err(err).Str("departmentID", department.DepartmentID).Msg("Error executing create department query")
		return fmt.Errorf("error creating department: %w", err)
	}
	return nil
}

func (r *PostgresDepartmentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Department, error) {
	sql, args, err := r.sb.Select(departmentColumns...).From("departments").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get department SQL")
		return nil, fmt.Errorf("failed to build get department query: %w", err)
	}

	d, err := scanDepartment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	return d, nil
}

// GetByID retrieves a department by ID
func (r *PostgresDepartmentRepository) GetByID(ctx context.Context, departmentID string) (*models.Department, error) {
	return r.getOne(ctx, squirrel.Eq{"department_id": departmentID})
}

// GetByName retrieves a department by its unique name
func (r *PostgresDepartmentRepository) GetByName(ctx context.Context, name string) (*models.Department, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

// GetAll retrieves all departments
func (r *PostgresDepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	sql, args, err := r.sb.Select(departmentColumns...).From("departments").OrderBy("department_id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list departments SQL")
		return nil, fmt.Errorf("failed to build list departments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	defer rows.Close()

	departments := []*models.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// Update updates name and description of a department
func (r *PostgresDepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	sql, args, err := r.sb.Update("departments").
		Set("name", department.Name).
		Set("description", department.Description).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"department_id": department.DepartmentID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update department SQL")
		return fmt.Errorf("failed to build update department query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&department.CreatedAt, &department.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.ErrDepartmentNotFound
		case dberrors.IsDuplicateConstraintError(err, constraintDepartmentsNameKey):
			return apperrors.ErrDepartmentAlreadyExists
		}
		return fmt.Errorf("error updating department: %w", err)
	}
	return nil
}

// Delete deletes a department. Members and courses must be detached first, the foreign keys
// reject the delete otherwise.
func (r *PostgresDepartmentRepository) Delete(ctx context.Context, departmentID string) error {
	sql, args, err := r.sb.Delete("departments").Where(squirrel.Eq{"department_id": departmentID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete department SQL")
		return fmt.Errorf("failed to build delete department query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "") {
			return apperrors.NewConflictError("department still has dependents")
		}
		return fmt.Errorf("error deleting department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}

// ExistsByID checks if a department exists
func (r *PostgresDepartmentRepository) ExistsByID(ctx context.Context, departmentID string) (bool, error) {
	return existsQuery(ctx, r.db, r.sb.Select("1").From("departments").Where(squirrel.Eq{"department_id": departmentID}))
}
