package booking

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
	"github.com/bengkelhub/bengkel-booking/internal/user"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrServiceNotFound   = apperror.New(http.StatusNotFound, "service not found")
	ErrValidation        = apperror.New(http.StatusBadRequest, "validation failed")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidDate       = apperror.New(http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrSlotTaken         = apperror.New(http.StatusConflict, "time slot already booked")
	ErrNotCancellable    = apperror.New(http.StatusConflict, "booking can no longer be cancelled")
	ErrIllegalTransition = apperror.New(http.StatusConflict, "status transition not allowed")
	ErrConcurrentUpdate  = apperror.New(http.StatusConflict, "booking was modified concurrently, please retry")
	ErrDuplicateCode     = apperror.New(http.StatusConflict, "booking code already exists")
)

// DateLayout is the wire and storage format of booking dates.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}

// ActiveStatuses are the statuses that hold a slot.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress}

// transitions is the complete set of allowed status changes. Terminal
// statuses have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusInProgress
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransition reports whether from may move to to. Staying in the same
// status lets staff amend costs and notes, except on a cancelled booking.
func CanTransition(from, to Status) bool {
	if from == to {
		return !from.IsTerminal() || from == StatusCompleted
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking is a scheduled visit. Contact, vehicle and cost fields are
// snapshots taken at creation.
type Booking struct {
	ID          int64
	Code        string
	UserID      *int64
	ServiceID   *int64
	ServiceName string
	Date        time.Time // midnight UTC of the calendar date
	Time        string

	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	VehicleType   string
	VehiclePlate  string
	VehicleModel  string
	VehicleYear   int

	Notes         *string
	MechanicNotes *string

	EstimatedCost decimal.Decimal
	FinalCost     decimal.NullDecimal
	Status        Status

	CreatedAt time.Time
	UpdatedAt time.Time

	// AccountName is the linked user's current name, if any.
	AccountName *string
}

// DisplayName prefers the linked account's name over the contact snapshot.
func (b *Booking) DisplayName() string {
	if b.AccountName != nil && *b.AccountName != "" {
		return *b.AccountName
	}
	return b.CustomerName
}

// TotalCost is the final cost once set, the estimate otherwise.
func (b *Booking) TotalCost() decimal.Decimal {
	if b.FinalCost.Valid {
		return b.FinalCost.Decimal
	}
	return b.EstimatedCost
}

// IsOwnedBy reports whether the booking belongs to the given account.
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID != nil && *b.UserID == userID
}

// Actor is the authenticated caller of a booking operation.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// CreateRequest carries customer input for a new booking.
type CreateRequest struct {
	ServiceID     int64   `json:"service_id" validate:"required,min=1"`
	BookingDate   string  `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime   string  `json:"booking_time" validate:"required"`
	CustomerName  string  `json:"customer_name" validate:"required,max=255"`
	CustomerPhone string  `json:"customer_phone" validate:"required,max=15"`
	CustomerEmail string  `json:"customer_email" validate:"required,email,max=255"`
	VehicleType   string  `json:"vehicle_type" validate:"required,max=100"`
	VehiclePlate  string  `json:"vehicle_plate" validate:"required,max=20"`
	VehicleModel  string  `json:"vehicle_model" validate:"required,max=100"`
	VehicleYear   int     `json:"vehicle_year" validate:"required"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateStatusRequest is the staff-side status change.
type UpdateStatusRequest struct {
	Status        string           `json:"status"`
	FinalCost     *decimal.Decimal `json:"final_cost"`
	MechanicNotes *string          `json:"mechanic_notes"`
}

type Filter struct {
	UserID   *int64
	Status   *Status
	Date     *time.Time
	Search   string
	Page     int
	PageSize int // 0 = unpaged
}

// Availability is the slot view of a single date.
type Availability struct {
	Date      time.Time
	Available []string
	Booked    []string
	All       []string
}
