package chat

import (
	"net/http"
	"time"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
)

const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

var (
	ErrNotFound   = apperror.New(http.StatusNotFound, "message not found")
	ErrValidation = apperror.New(http.StatusBadRequest, "invalid message")
)

// Message is one line of a chat session. Guests are identified by session only.
type Message struct {
	ID         int64
	UserID     *int64
	SessionID  string
	SenderType string
	Body       string
	IsRead     bool
	CreatedAt  time.Time
}

// SendRequest is a visitor message for a session.
type SendRequest struct {
	SessionID string `json:"session_id" validate:"required,max=100"`
	Message   string `json:"message" validate:"required,max=1000"`
}

// Statistics summarises chat activity for admins.
type Statistics struct {
	TotalMessages      int
	TotalSessions      int
	UnreadUserMessages int
}
