package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Constraint names from the schema migration.
const (
	activeSlotIndex  = "bookings_active_slot_key"
	bookingCodeIndex = "bookings_booking_code_key"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	HeldSlots(ctx context.Context, date time.Time) ([]string, error)
	// UpdateStatus persists status, final cost and mechanic notes only if
	// the stored status still equals from.
	UpdateStatus(ctx context.Context, b *Booking, from Status) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"b.id", "b.booking_code", "b.user_id", "b.service_id", "b.service_name",
	"b.booking_date", "b.booking_time",
	"b.customer_name", "b.customer_phone", "b.customer_email",
	"b.vehicle_type", "b.vehicle_plate", "b.vehicle_model", "b.vehicle_year",
	"b.notes", "b.mechanic_notes", "b.estimated_cost", "b.final_cost", "b.status",
	"b.created_at", "b.updated_at", "u.name",
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.Code, &b.UserID, &b.ServiceID, &b.ServiceName,
		&b.Date, &b.Time,
		&b.CustomerName, &b.CustomerPhone, &b.CustomerEmail,
		&b.VehicleType, &b.VehiclePlate, &b.VehicleModel, &b.VehicleYear,
		&b.Notes, &b.MechanicNotes, &b.EstimatedCost, &b.FinalCost, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.AccountName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func selectBookings() squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(bookingColumns...).
		From("public.bookings b").
		LeftJoin("public.users u ON u.id = b.user_id")
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"booking_code", "user_id", "service_id", "service_name", "booking_date", "booking_time",
			"customer_name", "customer_phone", "customer_email",
			"vehicle_type", "vehicle_plate", "vehicle_model", "vehicle_year",
			"notes", "estimated_cost", "status",
		).
		Values(
			b.Code, b.UserID, b.ServiceID, b.ServiceName, b.Date, b.Time,
			b.CustomerName, b.CustomerPhone, b.CustomerEmail,
			b.VehicleType, b.VehiclePlate, b.VehicleModel, b.VehicleYear,
			b.Notes, b.EstimatedCost, b.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			switch e.ConstraintName {
			case activeSlotIndex:
				return ErrSlotTaken
			case bookingCodeIndex:
				return ErrDuplicateCode
			}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := selectBookings().Column("count(*) OVER() AS total_count")

	if filter.UserID != nil {
		query = query.Where(squirrel.Eq{"b.user_id": *filter.UserID})
	}
	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"b.status": *filter.Status})
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"b.booking_date": *filter.Date})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"b.booking_code": pattern},
			squirrel.ILike{"b.customer_name": pattern},
			squirrel.ILike{"b.customer_phone": pattern},
			squirrel.ILike{"b.vehicle_plate": pattern},
		})
	}

	query = query.OrderBy("b.created_at DESC", "b.id DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64((page - 1) * filter.PageSize))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var result []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) HeldSlots(ctx context.Context, date time.Time) ([]string, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("booking_time").
		From("public.bookings").
		Where(squirrel.Eq{"booking_date": date, "status": ActiveStatuses}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build held slots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("held slots query failed: %w", err)
	}

	held, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan held slots failed: %w", err)
	}
	return held, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking, from Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("final_cost", b.FinalCost).
		Set("mechanic_notes", b.MechanicNotes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "status": from}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation && e.ConstraintName == activeSlotIndex {
			return ErrSlotTaken
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}

	// Nothing matched: either the booking is gone or its status moved on.
	if _, err := r.GetByID(ctx, b.ID); err != nil {
		return err
	}
	return ErrConcurrentUpdate
}
