package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
	"github.com/bengkelhub/bengkel-booking/internal/setting"
)

type Handler struct {
	service setting.Service
}

func NewHandler(service setting.Service) *Handler {
	return &Handler{service: service}
}

// All returns every shop setting as a flat map.
func (h *Handler) All(c *gin.Context) {
	values, err := h.service.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, values)
}

// Update writes the supplied settings.
// Access Control: Admin only.
func (h *Handler) Update(c *gin.Context) {
	var req setting.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	values, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "settings updated", values)
}
