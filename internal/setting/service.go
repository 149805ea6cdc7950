package setting

import (
	"context"
	"net/http"
	"strings"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/validation"
)

var ErrValidation = apperror.New(http.StatusBadRequest, "invalid settings")

type Service interface {
	All(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, req UpdateRequest) (map[string]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) All(ctx context.Context) (map[string]string, error) {
	return s.repo.All(ctx)
}

// Update upserts only the supplied keys and returns the full settings map.
func (s *service) Update(ctx context.Context, req UpdateRequest) (map[string]string, error) {
	if fields := validation.Struct(req); fields != nil {
		return nil, ErrValidation.WithFields(fields)
	}

	values := req.values()
	if len(values) == 0 {
		return nil, ErrNothingToUpdate
	}
	for k, v := range values {
		values[k] = strings.TrimSpace(v)
	}

	if err := s.repo.Upsert(ctx, values); err != nil {
		return nil, err
	}
	return s.repo.All(ctx)
}
