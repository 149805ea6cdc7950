package setting

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	All(ctx context.Context) (map[string]string, error)
	// Upsert writes every pair in one transaction.
	Upsert(ctx context.Context, values map[string]string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) All(ctx context.Context) (map[string]string, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("key", "COALESCE(value, '')").
		From("public.settings").
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list settings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list settings failed: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting failed: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings failed: %w", err)
	}
	return out, nil
}

func (r *pgxRepository) Upsert(ctx context.Context, values map[string]string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for k, v := range values {
			query, args, err := psql.Insert("public.settings").
				Columns("key", "value").
				Values(k, v).
				Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
				ToSql()
			if err != nil {
				return fmt.Errorf("build upsert setting query failed: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert setting %s failed: %w", k, err)
			}
		}
		return nil
	})
}
