package http

import (
	"github.com/shopspring/decimal"

	"github.com/bengkelhub/bengkel-booking/internal/booking"
	"github.com/bengkelhub/bengkel-booking/internal/dashboard"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/money"
)

type StatsResponse struct {
	TotalBookings             int             `json:"total_bookings"`
	PendingBookings           int             `json:"pending_bookings"`
	TotalCustomers            int             `json:"total_customers"`
	MonthlyRevenue            decimal.Decimal `json:"monthly_revenue"`
	LastMonthRevenue          decimal.Decimal `json:"last_month_revenue"`
	FormattedMonthlyRevenue   string          `json:"formatted_monthly_revenue"`
	FormattedLastMonthRevenue string          `json:"formatted_last_month_revenue"`
	RevenueGrowth             float64         `json:"revenue_growth"`
}

func NewStatsResponse(s *dashboard.Stats) StatsResponse {
	return StatsResponse{
		TotalBookings:             s.TotalBookings,
		PendingBookings:           s.PendingBookings,
		TotalCustomers:            s.TotalCustomers,
		MonthlyRevenue:            s.MonthlyRevenue,
		LastMonthRevenue:          s.LastMonthRevenue,
		FormattedMonthlyRevenue:   money.FormatRupiah(s.MonthlyRevenue),
		FormattedLastMonthRevenue: money.FormatRupiah(s.LastMonthRevenue),
		RevenueGrowth:             s.RevenueGrowth,
	}
}

type RecentRequest struct {
	Limit int `form:"limit,default=5" binding:"omitempty,min=1,max=50"`
}

type RecentBookingResponse struct {
	ID             int64           `json:"id"`
	BookingCode    string          `json:"booking_code"`
	CustomerName   string          `json:"customer_name"`
	ServiceName    string          `json:"service_name"`
	BookingDate    string          `json:"booking_date"`
	BookingTime    string          `json:"booking_time"`
	Status         string          `json:"status"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	FormattedPrice string          `json:"formatted_price"`
}

func NewRecentList(items []*dashboard.RecentBooking) []RecentBookingResponse {
	out := make([]RecentBookingResponse, len(items))
	for i, b := range items {
		out[i] = RecentBookingResponse{
			ID:             b.ID,
			BookingCode:    b.Code,
			CustomerName:   b.CustomerName,
			ServiceName:    b.ServiceName,
			BookingDate:    b.Date.Format(booking.DateLayout),
			BookingTime:    b.Time,
			Status:         b.Status,
			TotalPrice:     b.TotalPrice,
			FormattedPrice: money.FormatRupiah(b.TotalPrice),
		}
	}
	return out
}
