// Package dbtest opens the Postgres database used by repository tests.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bengkelhub/bengkel-booking/internal/db"
)

// lockKey serializes test packages that share one database.
const lockKey = 7351

// Open connects to TEST_DB_DSN, applies migrations and empties the
// transactional tables. The test is skipped when TEST_DB_DSN is unset.
// Seeded services and settings are kept.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	// Attempt to load .env from the module root
	_ = godotenv.Load("../../.env", "../../../.env")

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, "SELECT pg_advisory_lock($1)", lockKey)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockKey)
		conn.Release()
		pool.Close()
	})

	logger := zerolog.Nop()
	require.NoError(t, db.Migrate(ctx, pool, &logger))

	// DELETE rather than TRUNCATE ... CASCADE, which would reach services through files.
	for _, q := range []string{"DELETE FROM chat_messages", "DELETE FROM bookings", "DELETE FROM users"} {
		_, err = pool.Exec(ctx, q)
		require.NoError(t, err)
	}

	return pool
}

// CreateUser inserts an active account and returns its id.
func CreateUser(t *testing.T, pool *pgxpool.Pool, name, email, role string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, 'x', $3) RETURNING id`,
		name, email, role,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// FirstServiceID returns the id of the lowest-ordered seeded service.
func FirstServiceID(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"SELECT id FROM services ORDER BY display_order, id LIMIT 1",
	).Scan(&id)
	require.NoError(t, err)
	return id
}
