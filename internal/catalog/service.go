package catalog

import (
	"context"
	"strings"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/validation"
)

// Catalog is the business interface of the service catalog.
type Catalog interface {
	ListActive(ctx context.Context) ([]*Service, error)
	ListAll(ctx context.Context) ([]*Service, error)
	Get(ctx context.Context, id int64) (*Service, error)
	GetAny(ctx context.Context, id int64) (*Service, error)
	Categories(ctx context.Context) ([]string, error)
	ByCategory(ctx context.Context, category string) ([]*Service, error)
	SnapshotPrice(ctx context.Context, id int64) (*Snapshot, error)

	Create(ctx context.Context, req CreateRequest) (*Service, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Service, error)
	Delete(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (*Service, error)
	SetImage(ctx context.Context, id int64, fileID string) (*Service, error)
}

type catalog struct {
	repo Repository
}

func NewCatalog(repo Repository) Catalog {
	return &catalog{repo: repo}
}

func (c *catalog) ListActive(ctx context.Context) ([]*Service, error) {
	return c.repo.List(ctx, Filter{ActiveOnly: true})
}

func (c *catalog) ListAll(ctx context.Context) ([]*Service, error) {
	return c.repo.List(ctx, Filter{})
}

// Get hides inactive services from the public.
func (c *catalog) Get(ctx context.Context, id int64) (*Service, error) {
	s, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.IsActive {
		return nil, ErrNotFound
	}
	return s, nil
}

func (c *catalog) GetAny(ctx context.Context, id int64) (*Service, error) {
	return c.repo.GetByID(ctx, id)
}

func (c *catalog) Categories(ctx context.Context) ([]string, error) {
	return c.repo.Categories(ctx)
}

func (c *catalog) ByCategory(ctx context.Context, category string) ([]*Service, error) {
	return c.repo.List(ctx, Filter{Category: strings.TrimSpace(category), ActiveOnly: true})
}

// SnapshotPrice returns the name and current price of a bookable service.
func (c *catalog) SnapshotPrice(ctx context.Context, id int64) (*Snapshot, error) {
	s, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Snapshot{ServiceID: s.ID, Name: s.Name, Price: s.Price}, nil
}

func (c *catalog) Create(ctx context.Context, req CreateRequest) (*Service, error) {
	if fields := validation.Struct(req); fields != nil {
		return nil, ErrValidation.WithFields(fields)
	}
	if req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	s := &Service{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Duration:    strings.TrimSpace(req.Duration),
		Category:    strings.TrimSpace(req.Category),
		Icon:        DefaultIcon,
		Features:    cleanFeatures(req.Features),
		IsActive:    true,
	}
	if req.Icon != nil && strings.TrimSpace(*req.Icon) != "" {
		s.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}

	if err := c.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *catalog) Update(ctx context.Context, id int64, req UpdateRequest) (*Service, error) {
	if fields := validation.Struct(req); fields != nil {
		return nil, ErrValidation.WithFields(fields)
	}

	s, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		s.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		s.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		s.Price = *req.Price
	}
	if req.Duration != nil {
		s.Duration = strings.TrimSpace(*req.Duration)
	}
	if req.Category != nil {
		s.Category = strings.TrimSpace(*req.Category)
	}
	if req.Icon != nil {
		s.Icon = strings.TrimSpace(*req.Icon)
		if s.Icon == "" {
			s.Icon = DefaultIcon
		}
	}
	if req.Features != nil {
		s.Features = cleanFeatures(req.Features)
	}
	if req.Order != nil {
		s.Order = *req.Order
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}

	if err := c.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *catalog) Delete(ctx context.Context, id int64) error {
	return c.repo.Delete(ctx, id)
}

func (c *catalog) ToggleActive(ctx context.Context, id int64) (*Service, error) {
	s, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.IsActive = !s.IsActive
	if err := c.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *catalog) SetImage(ctx context.Context, id int64, fileID string) (*Service, error) {
	s, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.ImageID = &fileID
	if err := c.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// cleanFeatures trims entries and drops blanks, keeping order. Never returns nil.
func cleanFeatures(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
