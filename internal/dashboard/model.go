package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats is the admin overview. All figures are computed on request.
type Stats struct {
	TotalBookings    int
	PendingBookings  int
	TotalCustomers   int
	MonthlyRevenue   decimal.Decimal
	LastMonthRevenue decimal.Decimal
	RevenueGrowth    float64
}

// RecentBooking is a denormalized row for the "latest bookings" widget.
type RecentBooking struct {
	ID           int64
	Code         string
	CustomerName string
	ServiceName  string
	Date         time.Time
	Time         string
	Status       string
	TotalPrice   decimal.Decimal
}

// Counts groups the plain counters read in one round trip.
type Counts struct {
	TotalBookings   int
	PendingBookings int
	TotalCustomers  int
}

var hundred = decimal.NewFromInt(100)

// Growth returns the month-over-month change in percent, rounded to one
// decimal. A zero baseline yields 100 when current is positive and 0 otherwise.
func Growth(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	pct := current.Sub(previous).Div(previous).Mul(hundred).Round(1)
	return pct.InexactFloat64()
}

// monthRange returns [start of month, start of next month) for the month
// containing t, as calendar dates at midnight UTC.
func monthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
