package booking

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bengkelhub/bengkel-booking/internal/catalog"
	"github.com/bengkelhub/bengkel-booking/internal/config"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Booking, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*Booking), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockRepo) HeldSlots(ctx context.Context, date time.Time) ([]string, error) {
	args := m.Called(ctx, date)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, b *Booking, from Status) error {
	return m.Called(ctx, b, from).Error(0)
}

type mockPrices struct {
	mock.Mock
}

func (m *mockPrices) SnapshotPrice(ctx context.Context, id int64) (*catalog.Snapshot, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*catalog.Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

var jakarta, _ = time.LoadLocation("Asia/Jakarta")

// 2026-01-14 10:00 in Jakarta.
var fixedNow = time.Date(2026, 1, 14, 10, 0, 0, 0, jakarta)

func newTestService(t *testing.T) (*service, *mockRepo, *mockPrices) {
	t.Helper()
	slots, err := NewSlotSet(config.DefaultSlots)
	require.NoError(t, err)

	repo := new(mockRepo)
	prices := new(mockPrices)
	logger := zerolog.Nop()
	svc := NewService(repo, prices, slots, jakarta, &logger, WithClock(func() time.Time { return fixedNow }))
	return svc.(*service), repo, prices
}

func validRequest() CreateRequest {
	return CreateRequest{
		ServiceID:     1,
		BookingDate:   "2026-01-15",
		BookingTime:   "08:00",
		CustomerName:  "Budi Santoso",
		CustomerPhone: "081234567890",
		CustomerEmail: "Budi@Example.com",
		VehicleType:   "Sedan",
		VehiclePlate:  "b 1234 xyz",
		VehicleModel:  "Toyota Vios",
		VehicleYear:   2020,
	}
}

func day(s string) time.Time {
	d, _ := time.Parse(DateLayout, s)
	return d
}

func TestCreateSnapshotsPrice(t *testing.T) {
	svc, repo, prices := newTestService(t)
	ctx := context.Background()

	prices.On("SnapshotPrice", ctx, int64(1)).
		Return(&catalog.Snapshot{ServiceID: 1, Name: "Servis Berkala", Price: decimal.NewFromInt(350000)}, nil)
	repo.On("HeldSlots", ctx, day("2026-01-15")).Return([]string{"09:00"}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*booking.Booking")).
		Run(func(args mock.Arguments) { args.Get(1).(*Booking).ID = 10 }).
		Return(nil)

	b, err := svc.Create(ctx, Actor{UserID: 7, Role: "customer"}, validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(10), b.ID)
	assert.Equal(t, StatusPending, b.Status)
	assert.True(t, b.EstimatedCost.Equal(decimal.NewFromInt(350000)))
	assert.False(t, b.FinalCost.Valid)
	assert.Equal(t, "Servis Berkala", b.ServiceName)
	assert.Equal(t, int64(7), *b.UserID)
	assert.Equal(t, "B 1234 XYZ", b.VehiclePlate)
	assert.Equal(t, "budi@example.com", b.CustomerEmail)
	assert.Regexp(t, `^BK-20260114-[0-9A-F]{12}$`, b.Code)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *CreateRequest)
		field string
	}{
		{"today is not after today", func(r *CreateRequest) { r.BookingDate = "2026-01-14" }, "booking_date"},
		{"past date", func(r *CreateRequest) { r.BookingDate = "2025-12-31" }, "booking_date"},
		{"malformed date", func(r *CreateRequest) { r.BookingDate = "15/01/2026" }, "booking_date"},
		{"non canonical slot", func(r *CreateRequest) { r.BookingTime = "12:00" }, "booking_time"},
		{"slot format", func(r *CreateRequest) { r.BookingTime = "8:00" }, "booking_time"},
		{"missing name", func(r *CreateRequest) { r.CustomerName = "  " }, "customer_name"},
		{"long phone", func(r *CreateRequest) { r.CustomerPhone = "0812345678901234" }, "customer_phone"},
		{"bad email", func(r *CreateRequest) { r.CustomerEmail = "budi" }, "customer_email"},
		{"long plate", func(r *CreateRequest) { r.VehiclePlate = "B 1234 XYZ 5678 ABCDEFG" }, "vehicle_plate"},
		{"old vehicle", func(r *CreateRequest) { r.VehicleYear = 1989 }, "vehicle_year"},
		{"future vehicle", func(r *CreateRequest) { r.VehicleYear = 2028 }, "vehicle_year"},
		{"missing service", func(r *CreateRequest) { r.ServiceID = 0 }, "service_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, prices := newTestService(t)
			req := validRequest()
			tt.edit(&req)

			_, err := svc.Create(context.Background(), Actor{UserID: 1}, req)
			require.ErrorIs(t, err, ErrValidation)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Fields, tt.field)

			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			prices.AssertNotCalled(t, "SnapshotPrice", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateAcceptsNextYearVehicle(t *testing.T) {
	svc, repo, prices := newTestService(t)
	ctx := context.Background()

	prices.On("SnapshotPrice", ctx, int64(1)).Return(&catalog.Snapshot{ServiceID: 1, Price: decimal.NewFromInt(1)}, nil)
	repo.On("HeldSlots", ctx, mock.Anything).Return([]string{}, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	req := validRequest()
	req.VehicleYear = 2027
	_, err := svc.Create(ctx, Actor{UserID: 1}, req)
	assert.NoError(t, err)
}

func TestCreateUnknownService(t *testing.T) {
	svc, _, prices := newTestService(t)
	ctx := context.Background()

	prices.On("SnapshotPrice", ctx, int64(1)).Return(nil, catalog.ErrNotFound)

	_, err := svc.Create(ctx, Actor{UserID: 1}, validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCreateRejectsHeldSlot(t *testing.T) {
	svc, repo, prices := newTestService(t)
	ctx := context.Background()

	prices.On("SnapshotPrice", ctx, int64(1)).Return(&catalog.Snapshot{ServiceID: 1, Price: decimal.NewFromInt(1)}, nil)
	repo.On("HeldSlots", ctx, day("2026-01-15")).Return([]string{"08:00"}, nil)

	_, err := svc.Create(ctx, Actor{UserID: 1}, validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateLosesRaceOnUniqueIndex(t *testing.T) {
	svc, repo, prices := newTestService(t)
	ctx := context.Background()

	prices.On("SnapshotPrice", ctx, int64(1)).Return(&catalog.Snapshot{ServiceID: 1, Price: decimal.NewFromInt(1)}, nil)
	repo.On("HeldSlots", ctx, mock.Anything).Return([]string{}, nil)
	repo.On("Create", ctx, mock.Anything).Return(ErrSlotTaken).Once()

	_, err := svc.Create(ctx, Actor{UserID: 1}, validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateRetriesCodeCollision(t *testing.T) {
	svc, repo, prices := newTestService(t)
	ctx := context.Background()

	prices.On("SnapshotPrice", ctx, int64(1)).Return(&catalog.Snapshot{ServiceID: 1, Price: decimal.NewFromInt(1)}, nil)
	repo.On("HeldSlots", ctx, mock.Anything).Return([]string{}, nil)

	var codes []string
	capture := func(args mock.Arguments) { codes = append(codes, args.Get(1).(*Booking).Code) }
	repo.On("Create", ctx, mock.Anything).Run(capture).Return(ErrDuplicateCode).Once()
	repo.On("Create", ctx, mock.Anything).Run(capture).Return(nil).Once()

	b, err := svc.Create(ctx, Actor{UserID: 1}, validRequest())
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.NotEqual(t, codes[0], codes[1])
	assert.Equal(t, codes[1], b.Code)
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, repo, prices := newTestService(t)
	ctx := context.Background()

	prices.On("SnapshotPrice", ctx, int64(1)).Return(&catalog.Snapshot{ServiceID: 1, Price: decimal.NewFromInt(1)}, nil)
	repo.On("HeldSlots", ctx, mock.Anything).Return([]string{}, nil)
	repo.On("Create", ctx, mock.Anything).Return(ErrDuplicateCode)

	_, err := svc.Create(ctx, Actor{UserID: 1}, validRequest())
	assert.ErrorIs(t, err, ErrDuplicateCode)
	repo.AssertNumberOfCalls(t, "Create", codeAttempts)
}

func stored(status Status) *Booking {
	uid := int64(7)
	return &Booking{
		ID:            5,
		Code:          "BK-20260114-ABCDEF123456",
		UserID:        &uid,
		Status:        status,
		EstimatedCost: decimal.NewFromInt(350000),
	}
}

func TestUpdateStatusCompletedDefaultsFinalCost(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	b := stored(StatusInProgress)
	repo.On("GetByID", ctx, int64(5)).Return(b, nil)
	repo.On("UpdateStatus", ctx, b, StatusInProgress).Return(nil)

	got, err := svc.UpdateStatus(ctx, 5, UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.True(t, got.FinalCost.Valid)
	assert.True(t, got.FinalCost.Decimal.Equal(decimal.NewFromInt(350000)))
	assert.Equal(t, "BK-20260114-ABCDEF123456", got.Code)
}

func TestUpdateStatusCompletedKeepsExistingFinalCost(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	b := stored(StatusInProgress)
	b.FinalCost = decimal.NewNullDecimal(decimal.NewFromInt(420000))
	repo.On("GetByID", ctx, int64(5)).Return(b, nil)
	repo.On("UpdateStatus", ctx, b, StatusInProgress).Return(nil)

	got, err := svc.UpdateStatus(ctx, 5, UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.True(t, got.FinalCost.Decimal.Equal(decimal.NewFromInt(420000)))
}

func TestUpdateStatusAmendsCompletedBooking(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	b := stored(StatusCompleted)
	b.FinalCost = decimal.NewNullDecimal(decimal.NewFromInt(350000))
	repo.On("GetByID", ctx, int64(5)).Return(b, nil)
	repo.On("UpdateStatus", ctx, b, StatusCompleted).Return(nil)

	cost := decimal.NewFromInt(375000)
	notes := "ganti filter oli"
	got, err := svc.UpdateStatus(ctx, 5, UpdateStatusRequest{Status: "completed", FinalCost: &cost, MechanicNotes: &notes})
	require.NoError(t, err)
	assert.True(t, got.FinalCost.Decimal.Equal(cost))
	assert.Equal(t, "ganti filter oli", *got.MechanicNotes)
}

func TestUpdateStatusRejects(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		next    string
		want    error
	}{
		{"unknown status", StatusPending, "done", ErrInvalidStatus},
		{"skip ahead", StatusPending, "completed", ErrIllegalTransition},
		{"backwards", StatusConfirmed, "pending", ErrIllegalTransition},
		{"reopen completed", StatusCompleted, "pending", ErrIllegalTransition},
		{"reopen cancelled", StatusCancelled, "confirmed", ErrIllegalTransition},
		{"cancel in progress", StatusInProgress, "cancelled", ErrIllegalTransition},
		{"amend cancelled", StatusCancelled, "cancelled", ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			ctx := context.Background()
			repo.On("GetByID", ctx, int64(5)).Return(stored(tt.current), nil).Maybe()

			cost := decimal.NewFromInt(500000)
			_, err := svc.UpdateStatus(ctx, 5, UpdateStatusRequest{Status: tt.next, FinalCost: &cost})
			assert.ErrorIs(t, err, tt.want)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateStatusRejectsNegativeCost(t *testing.T) {
	svc, _, _ := newTestService(t)
	cost := decimal.NewFromInt(-1)

	_, err := svc.UpdateStatus(context.Background(), 5, UpdateStatusRequest{Status: "completed", FinalCost: &cost})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancel(t *testing.T) {
	for _, st := range Statuses {
		t.Run(string(st), func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			ctx := context.Background()

			b := stored(st)
			repo.On("GetByID", ctx, int64(5)).Return(b, nil)
			repo.On("UpdateStatus", ctx, b, st).Return(nil).Maybe()

			got, err := svc.Cancel(ctx, Actor{UserID: 7, Role: "customer"}, 5)
			if st == StatusPending || st == StatusConfirmed {
				require.NoError(t, err)
				assert.Equal(t, StatusCancelled, got.Status)
			} else {
				assert.ErrorIs(t, err, ErrNotCancellable)
				repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCancelRequiresOwnerOrAdmin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	b := stored(StatusPending)
	repo.On("GetByID", ctx, int64(5)).Return(b, nil)

	_, err := svc.Cancel(ctx, Actor{UserID: 8, Role: "customer"}, 5)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	repo.On("UpdateStatus", ctx, b, StatusPending).Return(nil)
	_, err = svc.Cancel(ctx, Actor{UserID: 1, Role: "admin"}, 5)
	assert.NoError(t, err)
}

func TestCancelLostRaceIsConflict(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	b := stored(StatusConfirmed)
	repo.On("GetByID", ctx, int64(5)).Return(b, nil)
	repo.On("UpdateStatus", ctx, b, StatusConfirmed).Return(ErrConcurrentUpdate)

	_, err := svc.Cancel(ctx, Actor{UserID: 7}, 5)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestAvailability(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	// Past dates are fine for read-only availability.
	repo.On("HeldSlots", ctx, day("2025-06-01")).Return([]string{"10:00", "13:00"}, nil)

	a, err := svc.Availability(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", "11:00", "14:00", "15:00", "16:00"}, a.Available)
	assert.Equal(t, []string{"10:00", "13:00"}, a.Booked)
	assert.Equal(t, config.DefaultSlots, a.All)

	_, err = svc.Availability(ctx, "tomorrow")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestListAllDefaults(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.On("List", ctx, Filter{Search: "b 1234", Page: 1, PageSize: 10}).Return([]*Booking{}, 0, nil)

	_, _, err := svc.ListAll(ctx, Filter{Search: "  b 1234 "})
	assert.NoError(t, err)
}

func TestListForCustomer(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	uid := int64(7)
	repo.On("List", ctx, Filter{UserID: &uid}).Return([]*Booking{stored(StatusPending)}, 1, nil)

	items, err := svc.ListForCustomer(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestExportWritesWorkbook(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	b := stored(StatusCompleted)
	b.Date = day("2026-01-15")
	b.Time = "08:00"
	b.ServiceName = "Servis Berkala"
	b.CustomerName = "Budi"
	b.VehiclePlate = "B 1234 XYZ"
	b.FinalCost = decimal.NewNullDecimal(decimal.NewFromInt(375000))

	st := StatusCompleted
	repo.On("List", ctx, Filter{Status: &st}).Return([]*Booking{b}, 1, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf, Filter{Status: &st, Page: 3, PageSize: 10}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "BK-20260114-ABCDEF123456", rows[1][0])
	assert.Equal(t, "2026-01-15", rows[1][1])
	assert.Equal(t, "Rp 350.000", rows[1][12])
	assert.Equal(t, "Rp 375.000", rows[1][13])
}

func TestExportPropagatesRepoError(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.On("List", ctx, Filter{}).Return(nil, 0, errors.New("db down"))
	assert.Error(t, svc.Export(ctx, &bytes.Buffer{}, Filter{}))
}
