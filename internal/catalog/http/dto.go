package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bengkelhub/bengkel-booking/internal/catalog"
	"github.com/bengkelhub/bengkel-booking/internal/file"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/money"
)

type ServiceResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	FormattedPrice string          `json:"formatted_price"`
	Duration       string          `json:"duration"`
	Category       string          `json:"category"`
	Icon           string          `json:"icon"`
	ImageURL       *string         `json:"image_url"`
	Features       []string        `json:"features"`
	Order          int             `json:"order"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewServiceResponse(s *catalog.Service) ServiceResponse {
	features := s.Features
	if features == nil {
		features = []string{}
	}
	return ServiceResponse{
		ID:             s.ID,
		Name:           s.Name,
		Description:    s.Description,
		Price:          s.Price,
		FormattedPrice: money.FormatRupiah(s.Price),
		Duration:       s.Duration,
		Category:       s.Category,
		Icon:           s.Icon,
		ImageURL:       file.OptionalURL(s.ImageID),
		Features:       features,
		Order:          s.Order,
		IsActive:       s.IsActive,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func newServiceList(items []*catalog.Service) []ServiceResponse {
	out := make([]ServiceResponse, len(items))
	for i, s := range items {
		out[i] = NewServiceResponse(s)
	}
	return out
}

type CategoryRequest struct {
	Category string `uri:"category" binding:"required,max=50"`
}
