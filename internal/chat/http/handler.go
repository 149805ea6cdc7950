package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bengkelhub/bengkel-booking/internal/auth"
	"github.com/bengkelhub/bengkel-booking/internal/chat"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/request"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
	"github.com/bengkelhub/bengkel-booking/internal/ratelimit"
)

const (
	sessionScope = "chat"
	clientScope  = "chat_ip"
)

type Handler struct {
	service        chat.Service
	sessionLimiter ratelimit.Limiter
	clientLimiter  ratelimit.Limiter
	loc            *time.Location
}

// NewHandler builds the chat handler. sessionLimiter budgets sends per
// session id; clientLimiter caps a client address across all its sessions.
func NewHandler(service chat.Service, sessionLimiter, clientLimiter ratelimit.Limiter, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		service:        service,
		sessionLimiter: sessionLimiter,
		clientLimiter:  clientLimiter,
		loc:            loc,
	}
}

func (h *Handler) toResponse(m *chat.Message) MessageResponse {
	resp := NewMessageResponse(m)
	resp.CreatedAt = m.CreatedAt.In(h.loc).Format("15:04")
	return resp
}

// Messages returns a session's conversation, oldest first.
func (h *Handler) Messages(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	msgs, err := h.service.Messages(c.Request.Context(), req.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = h.toResponse(m)
	}
	response.OK(c, http.StatusOK, MessagesResponse{Messages: out})
}

// Send stores a visitor message and answers with the auto-reply, if any.
func (h *Handler) Send(c *gin.Context) {
	var req chat.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if !ratelimit.Check(c, h.clientLimiter, clientScope, ratelimit.ByClientIP(c)) {
		return
	}
	if !ratelimit.Check(c, h.sessionLimiter, sessionScope, req.SessionID) {
		return
	}

	var userID *int64
	if id := auth.GetUserID(c); id > 0 {
		userID = &id
	}

	msg, reply, err := h.service.Send(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := SendResponse{Message: h.toResponse(msg)}
	if reply != nil {
		r := h.toResponse(reply)
		resp.Reply = &r
	}
	response.Message(c, http.StatusCreated, "message sent", resp)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	n, err := h.service.UnreadCount(c.Request.Context(), req.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, UnreadCountResponse{UnreadCount: n})
}

func (h *Handler) MarkRead(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "message marked as read", nil)
}

// Statistics reports overall chat activity.
// Access Control: Admin only.
func (h *Handler) Statistics(c *gin.Context) {
	s, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, StatisticsResponse{
		TotalMessages:      s.TotalMessages,
		TotalSessions:      s.TotalSessions,
		UnreadUserMessages: s.UnreadUserMessages,
	})
}
