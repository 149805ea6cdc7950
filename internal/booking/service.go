package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bengkelhub/bengkel-booking/internal/catalog"
	"github.com/bengkelhub/bengkel-booking/internal/metrics"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/validation"
)

const (
	minVehicleYear = 1990
	codeAttempts   = 3
)

// PriceSource supplies the catalog snapshot copied into a new booking.
type PriceSource interface {
	SnapshotPrice(ctx context.Context, id int64) (*catalog.Snapshot, error)
}

type Service interface {
	Create(ctx context.Context, actor Actor, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, actor Actor, id int64) (*Booking, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]*Booking, error)
	ListAll(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Booking, error)
	Cancel(ctx context.Context, actor Actor, id int64) (*Booking, error)
	Availability(ctx context.Context, date string) (*Availability, error)
	Export(ctx context.Context, w io.Writer, filter Filter) error
}

type service struct {
	repo   Repository
	prices PriceSource
	slots  SlotSet
	loc    *time.Location
	now    func() time.Time
	logger *zerolog.Logger
}

type Option func(*service)

// WithClock overrides the time source used for "today" and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(repo Repository, prices PriceSource, slots SlotSet, loc *time.Location, logger *zerolog.Logger, opts ...Option) Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &service{
		repo:   repo,
		prices: prices,
		slots:  slots,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today is the current calendar date at the workshop, as midnight UTC.
func (s *service) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateRequest) (*Booking, error) {
	date, err := s.validateCreate(&req)
	if err != nil {
		return nil, err
	}

	snap, err := s.prices.SnapshotPrice(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to snapshot service price: %w", err)
	}

	held, err := s.repo.HeldSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	if slices.Contains(held, req.BookingTime) {
		metrics.SlotConflict()
		return nil, ErrSlotTaken
	}

	serviceID := snap.ServiceID
	b := &Booking{
		ServiceID:     &serviceID,
		ServiceName:   snap.Name,
		Date:          date,
		Time:          req.BookingTime,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		VehicleType:   req.VehicleType,
		VehiclePlate:  req.VehiclePlate,
		VehicleModel:  req.VehicleModel,
		VehicleYear:   req.VehicleYear,
		Notes:         req.Notes,
		EstimatedCost: snap.Price,
		Status:        StatusPending,
	}
	if actor.UserID > 0 {
		uid := actor.UserID
		b.UserID = &uid
	}

	// The partial unique index on active slots is the real guard; the
	// HeldSlots check above only gives a friendlier early answer.
	for attempt := 1; ; attempt++ {
		b.Code = NewCode(s.now().In(s.loc))
		err = s.repo.Create(ctx, b)
		if err == nil {
			break
		}
		if errors.Is(err, ErrSlotTaken) {
			metrics.SlotConflict()
			return nil, err
		}
		if !errors.Is(err, ErrDuplicateCode) || attempt >= codeAttempts {
			return nil, err
		}
		s.logger.Warn().Str("code", b.Code).Msg("booking code collision, regenerating")
	}

	metrics.BookingCreated()
	s.logger.Info().
		Int64("booking_id", b.ID).
		Str("code", b.Code).
		Str("date", b.Date.Format(DateLayout)).
		Str("time", b.Time).
		Msg("booking created")

	return b, nil
}

// validateCreate normalises req in place and returns the parsed booking date.
func (s *service) validateCreate(req *CreateRequest) (time.Time, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerEmail = strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	req.VehicleType = strings.TrimSpace(req.VehicleType)
	req.VehiclePlate = strings.ToUpper(strings.TrimSpace(req.VehiclePlate))
	req.VehicleModel = strings.TrimSpace(req.VehicleModel)
	req.BookingTime = strings.TrimSpace(req.BookingTime)
	if req.Notes != nil {
		n := strings.TrimSpace(*req.Notes)
		if n == "" {
			req.Notes = nil
		} else {
			req.Notes = &n
		}
	}

	fields := validation.Struct(req)
	if fields == nil {
		fields = map[string]string{}
	}

	var date time.Time
	if _, bad := fields["booking_date"]; !bad {
		d, err := time.Parse(DateLayout, req.BookingDate)
		if err != nil {
			fields["booking_date"] = "must match format " + DateLayout
		} else if !d.After(s.today()) {
			fields["booking_date"] = "must be a date after today"
		} else {
			date = d
		}
	}

	if _, bad := fields["booking_time"]; !bad && !s.slots.Contains(req.BookingTime) {
		fields["booking_time"] = "must be one of: " + strings.Join(s.slots.Labels(), ", ")
	}

	maxYear := s.now().In(s.loc).Year() + 1
	if _, bad := fields["vehicle_year"]; !bad && (req.VehicleYear < minVehicleYear || req.VehicleYear > maxYear) {
		fields["vehicle_year"] = fmt.Sprintf("must be between %d and %d", minVehicleYear, maxYear)
	}

	if len(fields) > 0 {
		return time.Time{}, ErrValidation.WithFields(fields)
	}
	return date, nil
}

// GetByID returns the booking to its owner or an admin.
func (s *service) GetByID(ctx context.Context, actor Actor, id int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !b.IsOwnedBy(actor.UserID) {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID int64) ([]*Booking, error) {
	items, _, err := s.repo.List(ctx, Filter{UserID: &customerID})
	return items, err
}

func (s *service) ListAll(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Booking, error) {
	next, err := ParseStatus(req.Status)
	if err != nil {
		return nil, ErrInvalidStatus.WithFields(map[string]string{"status": "must be one of: pending, confirmed, in_progress, completed, cancelled"})
	}
	if req.FinalCost != nil && req.FinalCost.IsNegative() {
		return nil, ErrValidation.WithFields(map[string]string{"final_cost": "must not be negative"})
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := b.Status
	if !CanTransition(from, next) {
		return nil, ErrIllegalTransition.WithFields(map[string]string{
			"status": fmt.Sprintf("cannot change from %s to %s", from, next),
		})
	}

	b.Status = next
	if req.FinalCost != nil {
		b.FinalCost = decimal.NewNullDecimal(*req.FinalCost)
	}
	if req.MechanicNotes != nil {
		notes := strings.TrimSpace(*req.MechanicNotes)
		if notes == "" {
			b.MechanicNotes = nil
		} else {
			b.MechanicNotes = &notes
		}
	}
	if next == StatusCompleted && !b.FinalCost.Valid {
		b.FinalCost = decimal.NewNullDecimal(b.EstimatedCost)
	}

	if err := s.repo.UpdateStatus(ctx, b, from); err != nil {
		return nil, err
	}

	if from != next {
		metrics.BookingTransition(string(from), string(next))
		s.logger.Info().
			Int64("booking_id", b.ID).
			Str("from", string(from)).
			Str("to", string(next)).
			Msg("booking status changed")
	}

	return b, nil
}

func (s *service) Cancel(ctx context.Context, actor Actor, id int64) (*Booking, error) {
	b, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := b.Status
	if !from.CanBeCancelled() {
		return nil, ErrNotCancellable
	}

	b.Status = StatusCancelled
	if err := s.repo.UpdateStatus(ctx, b, from); err != nil {
		if errors.Is(err, ErrConcurrentUpdate) {
			return nil, ErrNotCancellable
		}
		return nil, err
	}

	metrics.BookingTransition(string(from), string(StatusCancelled))
	s.logger.Info().Int64("booking_id", b.ID).Int64("actor_id", actor.UserID).Msg("booking cancelled")

	return b, nil
}

// Availability is recomputed from current bookings on every call. Past
// dates are allowed.
func (s *service) Availability(ctx context.Context, date string) (*Availability, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, ErrInvalidDate
	}

	held, err := s.repo.HeldSlots(ctx, d)
	if err != nil {
		return nil, err
	}

	available, booked := s.slots.Resolve(held)
	return &Availability{
		Date:      d,
		Available: available,
		Booked:    booked,
		All:       s.slots.Labels(),
	}, nil
}
