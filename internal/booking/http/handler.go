package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bengkelhub/bengkel-booking/internal/auth"
	"github.com/bengkelhub/bengkel-booking/internal/booking"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/request"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func actor(c *gin.Context) booking.Actor {
	return booking.Actor{UserID: auth.GetUserID(c), Role: auth.GetUserRole(c)}
}

// Create books a slot for the authenticated customer.
func (h *Handler) Create(c *gin.Context) {
	var body booking.CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), actor(c), body)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "booking created", NewBookingResponse(b))
}

// ListMine returns the caller's bookings, newest first.
func (h *Handler) ListMine(c *gin.Context) {
	items, err := h.service.ListForCustomer(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, NewBookingList(items))
}

// Get returns a booking to its owner or an admin.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), actor(c), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, NewBookingResponse(b))
}

// Cancel cancels a pending or confirmed booking.
func (h *Handler) Cancel(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), actor(c), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "booking cancelled", NewBookingResponse(b))
}

// AvailableTimes lists free and held slots for a date.
func (h *Handler) AvailableTimes(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := h.service.Availability(c.Request.Context(), req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, NewAvailabilityResponse(a))
}

// List retrieves a paginated list of bookings with optional filtering.
// Access Control: Admin only.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	items, total, err := h.service.ListAll(c.Request.Context(), req.ToFilter())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, response.NewPageResponse(NewBookingList(items), req.Page, req.PageSize, total))
}

// Export downloads the filtered bookings as a spreadsheet.
// Access Control: Admin only.
func (h *Handler) Export(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf, req.ToFilter()); err != nil {
		response.Error(c, err)
		return
	}

	filename := "bookings-" + time.Now().Format("20060102-150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// UpdateStatus moves a booking along its lifecycle.
// Access Control: Admin only.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body UpdateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, booking.UpdateStatusRequest{
		Status:        body.Status,
		FinalCost:     body.FinalCost,
		MechanicNotes: body.MechanicNotes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "booking status updated", NewBookingResponse(b))
}
