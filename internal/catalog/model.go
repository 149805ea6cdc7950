package catalog

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
)

// DefaultIcon is used when a service is created without one.
const DefaultIcon = "🛠️"

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "service not found")
	ErrValidation    = apperror.New(http.StatusBadRequest, "validation failed")
	ErrNegativePrice = ErrValidation.WithFields(map[string]string{"price": "must not be negative"})
)

// Service is one workshop offering in the catalog.
type Service struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Duration    string
	Category    string
	Icon        string
	ImageID     *string
	Features    []string
	Order       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot is what a new booking copies from the catalog.
type Snapshot struct {
	ServiceID int64
	Name      string
	Price     decimal.Decimal
}

type CreateRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Duration    string          `json:"duration" validate:"required,max=50"`
	Category    string          `json:"category" validate:"required,max=50"`
	Icon        *string         `json:"icon" validate:"omitempty,max=16"`
	Features    []string        `json:"features" validate:"dive,required,max=255"`
	IsActive    *bool           `json:"is_active"`
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Duration    *string          `json:"duration" validate:"omitempty,min=1,max=50"`
	Category    *string          `json:"category" validate:"omitempty,min=1,max=50"`
	Icon        *string          `json:"icon" validate:"omitempty,max=16"`
	Features    []string         `json:"features" validate:"omitempty,dive,required,max=255"`
	Order       *int             `json:"order" validate:"omitempty,min=0"`
	IsActive    *bool            `json:"is_active"`
}

type Filter struct {
	Category   string
	ActiveOnly bool
}
