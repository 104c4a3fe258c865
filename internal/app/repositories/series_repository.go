package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/registry/internal/db"
	"github.com/yigit/registry/internal/pkg/identifier"
	"github.com/yigit/registry/internal/pkg/logger"
)

// PostgresSeriesRepository keeps the last issued identifier of every series in identifier_series.
type PostgresSeriesRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewSeriesRepository creates a new PostgresSeriesRepository
func NewSeriesRepository(conn db.DBTX) *PostgresSeriesRepository {
	return &PostgresSeriesRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Next issues the next identifier of series s.
//
// The series row is locked with SELECT ... FOR UPDATE, so when called inside a transaction a
// concurrent issuer of the same series waits until that transaction ends and then reads the
// identifier it stored.
func (r *PostgresSeriesRepository) Next(ctx context.Context, s identifier.Series) (string, error) {
	sql, args, err := r.sb.Insert("identifier_series").
		Columns("series", "last_id").
		Values(s.Name, "").
		Suffix("ON CONFLICT (series) DO NOTHING").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build series init query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return "", fmt.Errorf("error initializing series %s: %w", s.Name, err)
	}

	sql, args, err = r.sb.Select("last_id").
		From("identifier_series").
		Where(squirrel.Eq{"series": s.Name}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build series lock query: %w", err)
	}
	var last string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&last); err != nil {
		return "", fmt.Errorf("error locking series %s: %w", s.Name, err)
	}

	next, err := identifier.NextInSeries(s, last)
	if err != nil {
		logger.Error().Err(err).Str("series", s.Name).Str("lastID", last).Msg("Stored identifier is malformed")
		return "", err
	}

	sql, args, err = r.sb.Update("identifier_series").
		Set("last_id", next).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"series": s.Name}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build series update query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return "", fmt.Errorf("error advancing series %s: %w", s.Name, err)
	}

	return next, nil
}
