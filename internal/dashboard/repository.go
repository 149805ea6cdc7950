package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Counts(ctx context.Context) (*Counts, error)
	// Revenue sums final costs of completed bookings dated in [from, to).
	Revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	Recent(ctx context.Context, limit int) ([]*RecentBooking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{
		pool: pool,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *pgxRepository) Counts(ctx context.Context) (*Counts, error) {
	query, args, err := r.psql.
		Select(
			"(SELECT count(*) FROM public.bookings)",
			"(SELECT count(*) FROM public.bookings WHERE status = 'pending')",
			"(SELECT count(*) FROM public.users WHERE role = 'customer')",
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build counts query: %w", err)
	}

	var c Counts
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.TotalBookings, &c.PendingBookings, &c.TotalCustomers); err != nil {
		return nil, fmt.Errorf("failed to query dashboard counts: %w", err)
	}
	return &c, nil
}

func (r *pgxRepository) Revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query, args, err := r.psql.
		Select("COALESCE(SUM(final_cost), 0)").
		From("public.bookings").
		Where(squirrel.Eq{"status": "completed"}).
		Where(squirrel.GtOrEq{"booking_date": from}).
		Where(squirrel.Lt{"booking_date": to}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build revenue query: %w", err)
	}

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to query revenue: %w", err)
	}
	return total, nil
}

func (r *pgxRepository) Recent(ctx context.Context, limit int) ([]*RecentBooking, error) {
	query, args, err := r.psql.
		Select(
			"b.id",
			"b.booking_code",
			"COALESCE(u.name, b.customer_name)",
			"b.service_name",
			"b.booking_date",
			"b.booking_time",
			"b.status",
			"COALESCE(b.final_cost, b.estimated_cost)",
		).
		From("public.bookings b").
		LeftJoin("public.users u ON u.id = b.user_id").
		OrderBy("b.created_at DESC", "b.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent bookings query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent bookings: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*RecentBooking, error) {
		var rb RecentBooking
		err := row.Scan(&rb.ID, &rb.Code, &rb.CustomerName, &rb.ServiceName, &rb.Date, &rb.Time, &rb.Status, &rb.TotalPrice)
		return &rb, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recent bookings: %w", err)
	}
	return items, nil
}
