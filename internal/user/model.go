package user

import (
	"net/http"
	"time"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleMechanic = "mechanic"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrCustomerNotFound   = apperror.New(http.StatusNotFound, "customer not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusForbidden, "account is inactive")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrNameRequired       = apperror.New(http.StatusBadRequest, "name is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
)

// User is an account holder: a customer, a mechanic or an admin.
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	Phone          *string
	Address        *string
	ProfilePicture *string // file id
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Populated by customer listings only.
	BookingsCount int
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest carries the self-service sign-up fields.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Address  *string
}

// UpdateProfileRequest holds the fields a user may change on their own account.
type UpdateProfileRequest struct {
	Name    *string
	Phone   *string
	Address *string
}

// CreateCustomerRequest is the admin-side counterpart of RegisterRequest.
type CreateCustomerRequest struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Address  *string
	IsActive *bool
}

// UpdateCustomerRequest is a partial update; nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	IsActive *bool
	Password *string
}

// CustomerFilter defines filter options for listing customers.
type CustomerFilter struct {
	Search   string
	Page     int
	PageSize int
}

// CustomerStats summarises the customer base.
type CustomerStats struct {
	Total        int
	Active       int
	NewThisMonth int
}
