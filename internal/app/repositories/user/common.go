// Package user holds the PostgreSQL repositories for the user roles. Every role row references
// one row of the shared users table.
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
	constraintUsersPkey   = "users_pkey"
	constraintUsernameKey = "users_username_key"
)

var userColumns = []string{
	"u.user_id", "u.username", "u.password", "u.first_name", "u.last_name", "u.email",
	"u.phone", "u.date_of_birth", "u.gender", "u.role", "u.created_at", "u.updated_at",
}

// scanner is implemented by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func userDest(u *models.UserFields) []any {
	return []any{
		&u.UserID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Email,
		&u.Phone, &u.DateOfBirth, &u.Gender, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	}
}

func columns(extra ...string) []string {
	out := make([]string, 0, len(userColumns)+len(extra))
	out = append(out, userColumns...)
	return append(out, extra...)
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// insertUser inserts the shared users row and fills the timestamps of u.
func insertUser(ctx context.Context, sb squirrel.StatementBuilderType, conn db.DBTX, u *models.UserFields) error {
	sql, args, err := sb.Insert("users").
		Columns("user_id", "username", "password", "first_name", "last_name", "email",
			"phone", "date_of_birth", "gender", "role").
		Values(u.UserID, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Email,
			u.Phone, u.DateOfBirth, u.Gender, u.Role).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := conn.QueryRow(ctx, sql, args...).Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintUsernameKey):
			logger.Warn().Str("username", u.Username).Msg("Attempted to create user with duplicate username")
			return apperrors.ErrUsernameAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, constraintUsersPkey):
			return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, u.UserID)
		}
		logger.Error().Err(err).Str("userID", u.UserID).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// updateProfile rewrites the mutable user fields of the users row selected by where and
// returns false when no row matched.
func updateProfile(ctx context.Context, sb squirrel.StatementBuilderType, conn db.DBTX, u *models.UserFields, where squirrel.Sqlizer) (bool, error) {
	sql, args, err := sb.Update("users").
		Set("first_name", u.FirstName).
		Set("last_name", u.LastName).
		Set("email", u.Email).
		Set("phone", u.Phone).
		Set("date_of_birth", u.DateOfBirth).
		Set("gender", u.Gender).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update user SQL")
		return false, fmt.Errorf("failed to build update user query: %w", err)
	}

	if err := conn.QueryRow(ctx, sql, args...).Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error updating user: %w", err)
	}
	return true, nil
}

// deleteUsers deletes the users rows selected by where; role rows and edges follow by cascade.
func deleteUsers(ctx context.Context, sb squirrel.StatementBuilderType, conn db.DBTX, where squirrel.Sqlizer) (int64, error) {
	sql, args, err := sb.Delete("users").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete user SQL")
		return 0, fmt.Errorf("failed to build delete user query: %w", err)
	}
	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting user: %w", err)
	}
	return tag.RowsAffected(), nil
}

func exists(ctx context.Context, conn db.DBTX, q squirrel.SelectBuilder) (bool, error) {
	sql, args, err := q.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}
	var ok bool
	if err := conn.QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("error checking existence: %w", err)
	}
	return ok, nil
}

// Repository handles common user database operations
type Repository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewRepository creates a new Repository
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn, sb: newBuilder()}
}

// UsernameExists checks if a username is taken by any role
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return exists(ctx, r.db, r.sb.Select("1").From("users").Where(squirrel.Eq{"username": username}))
}

// GetAccountByUsername returns the shared fields of a user together with its role identifier
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	sql, args, err := r.sb.Select(columns("COALESCE(l.lecturer_id, s.student_id, u.user_id)")...).
		From("users u").
		LeftJoin("lecturers l ON l.user_id = u.user_id").
		LeftJoin("students s ON s.user_id = u.user_id").
		Where(squirrel.Eq{"u.username": username}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get account SQL")
		return nil, fmt.Errorf("failed to build get account query: %w", err)
	}

	var account models.Account
	dest := append(userDest(&account.UserFields), &account.RoleID)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	return &account, nil
}

// UpdatePassword replaces the credential hash of a user
func (r *Repository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	sql, args, err := r.sb.Update("users").
		Set("password", passwordHash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update password SQL")
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
