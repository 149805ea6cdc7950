package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bengkelhub/bengkel-booking/internal/auth"
	"github.com/bengkelhub/bengkel-booking/internal/booking"
	"github.com/bengkelhub/bengkel-booking/internal/catalog"
	"github.com/bengkelhub/bengkel-booking/internal/config"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
	"github.com/bengkelhub/bengkel-booking/internal/user"
)

// memRepo keeps bookings in memory and enforces one active booking per slot.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*booking.Booking
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[int64]*booking.Booking{}}
}

func (r *memRepo) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.items {
		if other.Status.IsActive() && other.Date.Equal(b.Date) && other.Time == b.Time {
			return booking.ErrSlotTaken
		}
	}
	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.items[b.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.items[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*booking.Booking
	for _, b := range r.items {
		if filter.UserID != nil && (b.UserID == nil || *b.UserID != *filter.UserID) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *booking.Booking) int { return int(b.ID - a.ID) })
	return out, len(out), nil
}

func (r *memRepo) HeldSlots(_ context.Context, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	held := []string{}
	for _, b := range r.items {
		if b.Status.IsActive() && b.Date.Equal(date) {
			held = append(held, b.Time)
		}
	}
	return held, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, b *booking.Booking, from booking.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[b.ID]
	if !ok {
		return booking.ErrNotFound
	}
	if cur.Status != from {
		return booking.ErrConcurrentUpdate
	}
	cp := *b
	r.items[b.ID] = &cp
	return nil
}

type fixedPrices map[int64]*catalog.Snapshot

func (p fixedPrices) SnapshotPrice(_ context.Context, id int64) (*catalog.Snapshot, error) {
	s, ok := p[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return s, nil
}

type testEnv struct {
	router *gin.Engine
	jwt    *auth.JWTManager
	repo   *memRepo
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	now := time.Date(2026, 1, 14, 10, 0, 0, 0, loc)

	slots, err := booking.NewSlotSet(config.DefaultSlots)
	require.NoError(t, err)

	prices := fixedPrices{
		1: {ServiceID: 1, Name: "Servis Berkala", Price: decimal.NewFromInt(350000)},
	}
	repo := newMemRepo()
	logger := zerolog.Nop()
	svc := booking.NewService(repo, prices, slots, loc, &logger, booking.WithClock(func() time.Time { return now }))

	jwt := auth.NewJWTManager("test-secret", time.Hour, "bengkel-test")
	adminOnly := func(c *gin.Context) {
		if auth.GetUserRole(c) != user.RoleAdmin {
			response.Abort(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}

	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), auth.AuthRequired(jwt), adminOnly)

	return &testEnv{router: r, jwt: jwt, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, userID int64, role string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := e.jwt.GenerateAccessToken(userID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Header().Get("Content-Type") != xlsxContentType {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func bookingBody(date, slot string) map[string]any {
	return map[string]any{
		"service_id":     1,
		"booking_date":   date,
		"booking_time":   slot,
		"customer_name":  "Budi Santoso",
		"customer_phone": "081234567890",
		"customer_email": "budi@example.com",
		"vehicle_type":   "Sedan",
		"vehicle_plate":  "B 1234 XYZ",
		"vehicle_model":  "Toyota Vios",
		"vehicle_year":   2020,
	}
}

func TestBookingLifecycle(t *testing.T) {
	env := setup(t)

	w, body := env.do(t, http.MethodPost, "/v1/bookings", bookingBody("2026-01-15", "08:00"), 7, user.RoleCustomer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "Rp 350.000", data["formatted_estimated_cost"])
	assert.Equal(t, "-", data["formatted_final_cost"])
	assert.Equal(t, true, data["can_be_cancelled"])
	assert.Regexp(t, `^BK-20260114-[0-9A-F]{12}$`, data["booking_code"])
	id := int64(data["id"].(float64))

	w, body = env.do(t, http.MethodGet, "/v1/bookings/available-times?date=2026-01-15", nil, 0, "")
	require.Equal(t, http.StatusOK, w.Code)
	slots := body["data"].(map[string]any)
	assert.NotContains(t, slots["available_times"], "08:00")
	assert.Contains(t, slots["booked_times"], "08:00")
	assert.Contains(t, slots["all_times"], "08:00")
	assert.Len(t, slots["all_times"], len(config.DefaultSlots))

	// Same slot is now held.
	w, body = env.do(t, http.MethodPost, "/v1/bookings", bookingBody("2026-01-15", "08:00"), 8, user.RoleCustomer)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])

	// Someone else cannot cancel it.
	w, _ = env.do(t, http.MethodPost, "/v1/bookings/"+itoa(id)+"/cancel", nil, 8, user.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = env.do(t, http.MethodPost, "/v1/bookings/"+itoa(id)+"/cancel", nil, 7, user.RoleCustomer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", body["data"].(map[string]any)["status"])

	w, body = env.do(t, http.MethodPost, "/v1/bookings/"+itoa(id)+"/cancel", nil, 7, user.RoleCustomer)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])

	// Cancelling released the slot.
	_, body = env.do(t, http.MethodGet, "/v1/bookings/available-times?date=2026-01-15", nil, 0, "")
	assert.Contains(t, body["data"].(map[string]any)["available_times"], "08:00")
}

func TestCreateRejectsToday(t *testing.T) {
	env := setup(t)

	w, body := env.do(t, http.MethodPost, "/v1/bookings", bookingBody("2026-01-14", "09:00"), 7, user.RoleCustomer)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "booking_date")
}

func TestCreateRequiresAuth(t *testing.T) {
	env := setup(t)

	w, body := env.do(t, http.MethodPost, "/v1/bookings", bookingBody("2026-01-15", "09:00"), 0, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing Authorization header", body["message"])
}

func TestAvailableTimesRequiresDate(t *testing.T) {
	env := setup(t)

	w, _ := env.do(t, http.MethodGet, "/v1/bookings/available-times", nil, 0, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodGet, "/v1/bookings/available-times?date=15-01-2026", nil, 0, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminStatusFlow(t *testing.T) {
	env := setup(t)

	_, body := env.do(t, http.MethodPost, "/v1/bookings", bookingBody("2026-01-16", "10:00"), 7, user.RoleCustomer)
	id := itoa(int64(body["data"].(map[string]any)["id"].(float64)))

	w, _ := env.do(t, http.MethodPut, "/v1/admin/bookings/"+id+"/status", map[string]any{"status": "confirmed"}, 7, user.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodPut, "/v1/admin/bookings/"+id+"/status", map[string]any{"status": "completed"}, 1, user.RoleAdmin)
	assert.Equal(t, http.StatusConflict, w.Code)

	for _, st := range []string{"confirmed", "in_progress", "completed"} {
		w, body = env.do(t, http.MethodPut, "/v1/admin/bookings/"+id+"/status", map[string]any{"status": st}, 1, user.RoleAdmin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	data := body["data"].(map[string]any)
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, "Rp 350.000", data["formatted_final_cost"])
	assert.Equal(t, false, data["can_be_cancelled"])

	w, _ = env.do(t, http.MethodPut, "/v1/admin/bookings/"+id+"/status", map[string]any{"status": "pending"}, 1, user.RoleAdmin)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminListAndExport(t *testing.T) {
	env := setup(t)

	env.do(t, http.MethodPost, "/v1/bookings", bookingBody("2026-01-15", "08:00"), 7, user.RoleCustomer)
	env.do(t, http.MethodPost, "/v1/bookings", bookingBody("2026-01-15", "09:00"), 7, user.RoleCustomer)

	w, body := env.do(t, http.MethodGet, "/v1/admin/bookings?status=pending", nil, 1, user.RoleAdmin)
	require.Equal(t, http.StatusOK, w.Code)
	page := body["data"].(map[string]any)
	assert.Len(t, page["items"], 2)

	w, _ = env.do(t, http.MethodGet, "/v1/admin/bookings?status=done", nil, 1, user.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodGet, "/v1/admin/bookings/export", nil, 1, user.RoleAdmin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}

func TestListMine(t *testing.T) {
	env := setup(t)

	env.do(t, http.MethodPost, "/v1/bookings", bookingBody("2026-01-15", "08:00"), 7, user.RoleCustomer)
	env.do(t, http.MethodPost, "/v1/bookings", bookingBody("2026-01-15", "09:00"), 8, user.RoleCustomer)

	w, body := env.do(t, http.MethodGet, "/v1/bookings", nil, 7, user.RoleCustomer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
