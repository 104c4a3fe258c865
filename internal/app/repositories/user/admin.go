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
	"github.com/yigit/registry/internal/pkg/logger"
)

// AdminRepository handles admin database operations. Admins are keyed by their user ID.
type AdminRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(conn db.DBTX) *AdminRepository {
	return &AdminRepository{db: conn, sb: newBuilder()}
}

func (r *AdminRepository) selectAdmins() squirrel.SelectBuilder {
	return r.sb.Select(columns("a.is_admin")...).
		From("admins a").
		Join("users u ON u.user_id = a.user_id")
}

func scanAdmin(row scanner) (*models.Admin, error) {
	var a models.Admin
	dest := append(userDest(&a.UserFields), &a.IsAdmin)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Admin, error) {
	sql, args, err := r.selectAdmins().Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get admin SQL")
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}
	a, err := scanAdmin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}
	return a, nil
}

// Create inserts the users row and the admins row in one transaction
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	admin.Role = models.RoleAdmin
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertUser(ctx, r.sb, tx, &admin.UserFields); err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("admins").
			Columns("user_id", "is_admin").
			Values(admin.UserID, admin.IsAdmin).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create admin SQL")
			return fmt.Errorf("failed to build create admin query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("userID", admin.UserID).Msg("Error executing create admin query")
			return fmt.Errorf("error creating admin: %w", err)
		}
		return nil
	})
}

// GetByID retrieves an admin by user ID
func (r *AdminRepository) GetByID(ctx context.Context, userID string) (*models.Admin, error) {
	return r.getOne(ctx, squirrel.Eq{"a.user_id": userID})
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.getOne(ctx, squirrel.Eq{"u.username": username})
}

// GetAll retrieves all admins ordered by user ID
func (r *AdminRepository) GetAll(ctx context.Context) ([]*models.Admin, error) {
	sql, args, err := r.selectAdmins().OrderBy("a.user_id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list admins SQL")
		return nil, fmt.Errorf("failed to build list admins query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing admins: %w", err)
	}
	defer rows.Close()

	admins := []*models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// Update rewrites the profile fields and the admin flag
func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		found, err := updateProfile(ctx, r.sb, tx, &admin.UserFields,
			squirrel.Expr("user_id = (SELECT user_id FROM admins WHERE user_id = ?)", admin.UserID))
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrAdminNotFound
		}

		sql, args, err := r.sb.Update("admins").
			Set("is_admin", admin.IsAdmin).
			Where(squirrel.Eq{"user_id": admin.UserID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update admin query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error updating admin: %w", err)
		}
		return nil
	})
}

// Delete removes an admin and its users row
func (r *AdminRepository) Delete(ctx context.Context, userID string) error {
	n, err := deleteUsers(ctx, r.sb, r.db,
		squirrel.Expr("user_id IN (SELECT user_id FROM admins WHERE user_id = ?)", userID))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// Count returns the number of admins
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("admins").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count admins query: %w", err)
	}
	var n int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting admins: %w", err)
	}
	return n, nil
}
