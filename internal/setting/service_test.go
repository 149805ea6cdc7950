package setting

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) All(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(map[string]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Upsert(ctx context.Context, values map[string]string) error {
	return m.Called(ctx, values).Error(0)
}

func ptr(s string) *string { return &s }

func TestUpdateOnlySuppliedKeys(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("Upsert", ctx, map[string]string{
		KeyShopName:  "Bengkel Jaya",
		KeyShopPhone: "021-555",
	}).Return(nil)
	repo.On("All", ctx).Return(map[string]string{
		KeyShopName:     "Bengkel Jaya",
		KeyShopPhone:    "021-555",
		KeyShopAddress:  "Jl. Merdeka 1",
		KeyWorkingHours: "08:00-17:00",
	}, nil)

	got, err := svc.Update(ctx, UpdateRequest{ShopName: ptr(" Bengkel Jaya "), ShopPhone: ptr("021-555")})
	require.NoError(t, err)
	assert.Equal(t, "Jl. Merdeka 1", got[KeyShopAddress])
	repo.AssertExpectations(t)
}

func TestUpdateRequiresAField(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), UpdateRequest{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpdateValidatesLength(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), UpdateRequest{ShopPhone: ptr(strings.Repeat("1", 31))})
	assert.ErrorIs(t, err, ErrValidation)
}
