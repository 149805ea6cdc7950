package http

import (
	"time"

	bookingHttp "github.com/bengkelhub/bengkel-booking/internal/booking/http"
	"github.com/bengkelhub/bengkel-booking/internal/file"
	"github.com/bengkelhub/bengkel-booking/internal/user"
)

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             *string   `json:"phone"`
	Address           *string   `json:"address"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	Role              string    `json:"role"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewUserResponse converts domain user.User to UserResponse used by the API.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		Address:           u.Address,
		ProfilePictureURL: file.OptionalURL(u.ProfilePicture),
		Role:              u.Role,
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
	}
}

// CustomerResponse adds admin-only aggregates to UserResponse.
type CustomerResponse struct {
	UserResponse
	BookingsCount int `json:"bookings_count"`
}

func NewCustomerResponse(u *user.User) CustomerResponse {
	return CustomerResponse{UserResponse: NewUserResponse(u), BookingsCount: u.BookingsCount}
}

// CustomerDetailResponse is a customer together with their booking history.
type CustomerDetailResponse struct {
	CustomerResponse
	Bookings []bookingHttp.BookingResponse `json:"bookings"`
}

// RegisterRequest defines the payload for user registration.
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=8"`
	Phone    *string `json:"phone" binding:"omitempty,max=15"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
}

// LoginRequest defines the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the token and user info.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

// UpdateProfileRequest uses pointers to distinguish "not sent" from "sent empty".
type UpdateProfileRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=15"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// ListCustomersRequest defines query parameters for the customer list.
type ListCustomersRequest struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=15" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=100"`
}

type CreateCustomerRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=8"`
	Phone    *string `json:"phone" binding:"omitempty,max=15"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
	IsActive *bool   `json:"is_active"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=15"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

type CustomerStatsResponse struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	NewThisMonth int `json:"new_this_month"`
}
