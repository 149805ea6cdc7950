package http

import (
	"time"

	"github.com/bengkelhub/bengkel-booking/internal/chat"
)

type SessionRequest struct {
	SessionID string `form:"session_id" binding:"required,max=100"`
}

type MessageResponse struct {
	ID         int64     `json:"id"`
	Message    string    `json:"message"`
	SenderType string    `json:"sender_type"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  string    `json:"created_at"` // HH:MM for the widget
	Timestamp  time.Time `json:"timestamp"`
}

func NewMessageResponse(m *chat.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		Message:    m.Body,
		SenderType: m.SenderType,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt.Format("15:04"),
		Timestamp:  m.CreatedAt,
	}
}

type MessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type SendResponse struct {
	Message MessageResponse  `json:"message"`
	Reply   *MessageResponse `json:"reply,omitempty"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type StatisticsResponse struct {
	TotalMessages      int `json:"total_messages"`
	TotalSessions      int `json:"total_sessions"`
	UnreadUserMessages int `json:"unread_user_messages"`
}
