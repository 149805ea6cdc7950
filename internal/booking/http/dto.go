package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bengkelhub/bengkel-booking/internal/booking"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/money"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for the admin booking list and export.
type ListBookingsRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed in_progress completed cancelled"`
	Date   string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

func (r *ListBookingsRequest) ToFilter() booking.Filter {
	f := booking.Filter{
		Search:   r.Search,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if r.Status != "" {
		st := booking.Status(r.Status)
		f.Status = &st
	}
	if r.Date != "" {
		if d, err := time.Parse(booking.DateLayout, r.Date); err == nil {
			f.Date = &d
		}
	}
	return f
}

type AvailabilityRequest struct {
	Date string `form:"date" binding:"required"`
}

type UpdateStatusBody struct {
	Status        string           `json:"status" binding:"required"`
	FinalCost     *decimal.Decimal `json:"final_cost"`
	MechanicNotes *string          `json:"mechanic_notes" binding:"omitempty,max=2000"`
}

type ServiceTag struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID                     int64               `json:"id"`
	BookingCode            string              `json:"booking_code"`
	UserID                 *int64              `json:"user_id"`
	Service                ServiceTag          `json:"service"`
	BookingDate            string              `json:"booking_date"`
	BookingTime            string              `json:"booking_time"`
	CustomerName           string              `json:"customer_name"`
	CustomerPhone          string              `json:"customer_phone"`
	CustomerEmail          string              `json:"customer_email"`
	VehicleType            string              `json:"vehicle_type"`
	VehiclePlate           string              `json:"vehicle_plate"`
	VehicleModel           string              `json:"vehicle_model"`
	VehicleYear            int                 `json:"vehicle_year"`
	Notes                  *string             `json:"notes"`
	MechanicNotes          *string             `json:"mechanic_notes"`
	EstimatedCost          decimal.Decimal     `json:"estimated_cost"`
	FinalCost              decimal.NullDecimal `json:"final_cost"`
	FormattedEstimatedCost string              `json:"formatted_estimated_cost"`
	FormattedFinalCost     string              `json:"formatted_final_cost"`
	Status                 string              `json:"status"`
	CanBeCancelled         bool                `json:"can_be_cancelled"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                     b.ID,
		BookingCode:            b.Code,
		UserID:                 b.UserID,
		Service:                ServiceTag{ID: b.ServiceID, Name: b.ServiceName},
		BookingDate:            b.Date.Format(booking.DateLayout),
		BookingTime:            b.Time,
		CustomerName:           b.CustomerName,
		CustomerPhone:          b.CustomerPhone,
		CustomerEmail:          b.CustomerEmail,
		VehicleType:            b.VehicleType,
		VehiclePlate:           b.VehiclePlate,
		VehicleModel:           b.VehicleModel,
		VehicleYear:            b.VehicleYear,
		Notes:                  b.Notes,
		MechanicNotes:          b.MechanicNotes,
		EstimatedCost:          b.EstimatedCost,
		FinalCost:              b.FinalCost,
		FormattedEstimatedCost: money.FormatRupiah(b.EstimatedCost),
		FormattedFinalCost:     money.FormatOptional(b.FinalCost),
		Status:                 string(b.Status),
		CanBeCancelled:         b.Status.CanBeCancelled(),
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}

// NewBookingList converts domain bookings to DTOs.
func NewBookingList(items []*booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(items))
	for i, b := range items {
		out[i] = NewBookingResponse(b)
	}
	return out
}

type AvailabilityResponse struct {
	Date           string   `json:"date"`
	AvailableTimes []string `json:"available_times"`
	BookedTimes    []string `json:"booked_times"`
	AllTimes       []string `json:"all_times"`
}

func NewAvailabilityResponse(a *booking.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		Date:           a.Date.Format(booking.DateLayout),
		AvailableTimes: a.Available,
		BookedTimes:    a.Booked,
		AllTimes:       a.All,
	}
}
