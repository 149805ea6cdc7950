package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bengkelhub/bengkel-booking/internal/auth"
)

// Service defines business logic related to users and customers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*User, error)
	SetProfilePicture(ctx context.Context, id int64, fileID string) (*User, error)

	ListCustomers(ctx context.Context, filter CustomerFilter) ([]*User, int, error)
	GetCustomer(ctx context.Context, id int64) (*User, error)
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*User, error)
	UpdateCustomer(ctx context.Context, id int64, req UpdateCustomerRequest) (*User, error)
	DeleteCustomer(ctx context.Context, id int64) error
	CustomerStats(ctx context.Context) (*CustomerStats, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	loc    *time.Location
	now    func() time.Time

	minPasswordLength int
}

// NewService creates a new user Service. loc decides where "this month" starts.
func NewService(repo Repository, hasher auth.PasswordHasher, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:              repo,
		hasher:            hasher,
		loc:               loc,
		now:               time.Now,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	return s.create(ctx, req.Name, req.Email, req.Password, req.Phone, req.Address, true)
}

func (s *service) create(ctx context.Context, name, email, password string, phone, address *string, active bool) (*User, error) {
	cleanName := strings.TrimSpace(name)
	if cleanName == "" {
		return nil, ErrNameRequired
	}

	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return nil, ErrEmailRequired
	}

	if len(password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Name:         cleanName,
		Email:        cleanEmail,
		PasswordHash: hash,
		Phone:        trimmed(phone),
		Address:      trimmed(address),
		Role:         RoleCustomer,
		IsActive:     active,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Checked after the password so that inactive accounts are not enumerable.
	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		u.Name = name
	}
	if req.Phone != nil {
		u.Phone = trimmed(req.Phone)
	}
	if req.Address != nil {
		u.Address = trimmed(req.Address)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) SetProfilePicture(ctx context.Context, id int64, fileID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.ProfilePicture = &fileID
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ListCustomers(ctx context.Context, filter CustomerFilter) ([]*User, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.ListCustomers(ctx, filter)
}

func (s *service) GetCustomer(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if u.Role != RoleCustomer {
		return nil, ErrCustomerNotFound
	}
	return u, nil
}

func (s *service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*User, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return s.create(ctx, req.Name, req.Email, req.Password, req.Phone, req.Address, active)
}

func (s *service) UpdateCustomer(ctx context.Context, id int64, req UpdateCustomerRequest) (*User, error) {
	u, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		u.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		if email != u.Email {
			existing, err := s.repo.GetByEmail(ctx, email)
			if err == nil && existing.ID != u.ID {
				return nil, ErrEmailAlreadyUsed
			}
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("failed to check existing email: %w", err)
			}
		}
		u.Email = email
	}
	if req.Phone != nil {
		u.Phone = trimmed(req.Phone)
	}
	if req.Address != nil {
		u.Address = trimmed(req.Address)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < s.minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) CustomerStats(ctx context.Context) (*CustomerStats, error) {
	now := s.now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	return s.repo.CustomerStats(ctx, monthStart)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
