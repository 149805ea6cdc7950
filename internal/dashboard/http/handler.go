package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bengkelhub/bengkel-booking/internal/dashboard"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
)

type Handler struct {
	service dashboard.Service
}

func NewHandler(service dashboard.Service) *Handler {
	return &Handler{service: service}
}

// Stats returns booking counts and revenue for the admin overview.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, NewStatsResponse(stats))
}

// Recent lists the newest bookings.
func (h *Handler) Recent(c *gin.Context) {
	var req RecentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	items, err := h.service.Recent(c.Request.Context(), req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, NewRecentList(items))
}
