package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bengkelhub/bengkel-booking/internal/dashboard"
)

type stubService struct {
	lastLimit int
}

func (s *stubService) Stats(context.Context) (*dashboard.Stats, error) {
	return &dashboard.Stats{
		TotalBookings:    4,
		PendingBookings:  1,
		TotalCustomers:   2,
		MonthlyRevenue:   decimal.NewFromInt(1200000),
		LastMonthRevenue: decimal.NewFromInt(1000000),
		RevenueGrowth:    20.0,
	}, nil
}

func (s *stubService) Recent(_ context.Context, limit int) ([]*dashboard.RecentBooking, error) {
	s.lastLimit = limit
	return []*dashboard.RecentBooking{{
		ID:           1,
		Code:         "BK-20260115-ABCDEF123456",
		CustomerName: "Budi",
		ServiceName:  "Servis Berkala",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Time:         "08:00",
		Status:       "pending",
		TotalPrice:   decimal.NewFromInt(350000),
	}}, nil
}

func newRouter(svc dashboard.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), pass, pass)
	return r
}

func get(t *testing.T, r http.Handler, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func TestStatsEndpoint(t *testing.T) {
	code, body := get(t, newRouter(&stubService{}), "/v1/admin/dashboard-stats")
	require.Equal(t, http.StatusOK, code)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(4), data["total_bookings"])
	assert.Equal(t, "Rp 1.200.000", data["formatted_monthly_revenue"])
	assert.Equal(t, 20.0, data["revenue_growth"])
}

func TestRecentEndpoint(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	code, body := get(t, r, "/v1/admin/recent-bookings")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5, svc.lastLimit)

	items := body["data"].([]any)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, "Budi", first["customer_name"])
	assert.Equal(t, "2026-01-15", first["booking_date"])
	assert.Equal(t, "Rp 350.000", first["formatted_price"])

	code, _ = get(t, r, "/v1/admin/recent-bookings?limit=100")
	assert.Equal(t, http.StatusBadRequest, code)
}
