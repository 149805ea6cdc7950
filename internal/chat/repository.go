package chat

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create stores every message in one transaction, in order.
	Create(ctx context.Context, msgs ...*Message) error
	ListBySession(ctx context.Context, sessionID string) ([]*Message, error)
	UnreadCount(ctx context.Context, sessionID, sender string) (int, error)
	MarkRead(ctx context.Context, id int64) error
	Statistics(ctx context.Context) (*Statistics, error)
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

func (r *pgxRepository) Create(ctx context.Context, msgs ...*Message) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, m := range msgs {
			query, args, err := r.psql.Insert("public.chat_messages").
				Columns("user_id", "session_id", "sender_type", "message", "is_read").
				Values(m.UserID, m.SessionID, m.SenderType, m.Body, m.IsRead).
				Suffix("RETURNING id, created_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("build create message query failed: %w", err)
			}
			if err := tx.QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
				return fmt.Errorf("create message failed: %w", err)
			}
		}
		return nil
	})
}

func (r *pgxRepository) ListBySession(ctx context.Context, sessionID string) ([]*Message, error) {
	query, args, err := r.psql.
		Select("id", "user_id", "session_id", "sender_type", "message", "is_read", "created_at").
		From("public.chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list messages query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Message, error) {
		var m Message
		err := row.Scan(&m.ID, &m.UserID, &m.SessionID, &m.SenderType, &m.Body, &m.IsRead, &m.CreatedAt)
		return &m, err
	})
}

func (r *pgxRepository) UnreadCount(ctx context.Context, sessionID, sender string) (int, error) {
	query, args, err := r.psql.Select("count(*)").
		From("public.chat_messages").
		Where(squirrel.Eq{"session_id": sessionID, "sender_type": sender, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build unread count query failed: %w", err)
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread messages failed: %w", err)
	}
	return n, nil
}

func (r *pgxRepository) MarkRead(ctx context.Context, id int64) error {
	query, args, err := r.psql.Update("public.chat_messages").
		Set("is_read", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark message read failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Statistics(ctx context.Context) (*Statistics, error) {
	query, args, err := r.psql.
		Select(
			"count(*)",
			"count(DISTINCT session_id)",
			"count(*) FILTER (WHERE sender_type = 'user' AND NOT is_read)",
		).
		From("public.chat_messages").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build chat statistics query failed: %w", err)
	}

	var s Statistics
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.TotalMessages, &s.TotalSessions, &s.UnreadUserMessages); err != nil {
		return nil, fmt.Errorf("query chat statistics failed: %w", err)
	}
	return &s, nil
}
