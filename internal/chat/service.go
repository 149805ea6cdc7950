package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/validation"
)

type Service interface {
	// Send stores the visitor message and, when configured, an auto-reply.
	Send(ctx context.Context, userID *int64, req SendRequest) (*Message, *Message, error)
	Messages(ctx context.Context, sessionID string) ([]*Message, error)
	UnreadCount(ctx context.Context, sessionID string) (int, error)
	MarkRead(ctx context.Context, id int64) error
	Statistics(ctx context.Context) (*Statistics, error)
}

type service struct {
	repo      Repository
	responder *Responder
	logger    *zerolog.Logger
}

func NewService(repo Repository, responder *Responder, logger *zerolog.Logger) Service {
	return &service{repo: repo, responder: responder, logger: logger}
}

func (s *service) Send(ctx context.Context, userID *int64, req SendRequest) (*Message, *Message, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Message = strings.TrimSpace(req.Message)
	if fields := validation.Struct(req); fields != nil {
		return nil, nil, ErrValidation.WithFields(fields)
	}

	msg := &Message{
		UserID:     userID,
		SessionID:  req.SessionID,
		SenderType: SenderUser,
		Body:       req.Message,
	}
	toStore := []*Message{msg}

	var reply *Message
	if text := s.responder.Reply(req.Message); text != "" {
		// Auto-replies are delivered immediately and count as read.
		reply = &Message{
			SessionID:  req.SessionID,
			SenderType: SenderAdmin,
			Body:       text,
			IsRead:     true,
		}
		toStore = append(toStore, reply)
	}

	if err := s.repo.Create(ctx, toStore...); err != nil {
		return nil, nil, err
	}

	s.logger.Debug().
		Str("session_id", msg.SessionID).
		Bool("auto_reply", reply != nil).
		Msg("chat message stored")

	return msg, reply, nil
}

func (s *service) Messages(ctx context.Context, sessionID string) ([]*Message, error) {
	return s.repo.ListBySession(ctx, strings.TrimSpace(sessionID))
}

// UnreadCount counts staff messages the visitor has not read yet.
func (s *service) UnreadCount(ctx context.Context, sessionID string) (int, error) {
	return s.repo.UnreadCount(ctx, strings.TrimSpace(sessionID), SenderAdmin)
}

func (s *service) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	return s.repo.Statistics(ctx)
}
