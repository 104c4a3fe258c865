package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/registry/internal/db"
)

// scanner is implemented by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func existsQuery(ctx context.Context, conn db.DBTX, q squirrel.SelectBuilder) (bool, error) {
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
