package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bengkelhub/bengkel-booking/internal/auth"
	"github.com/bengkelhub/bengkel-booking/internal/booking"
	bookingHttp "github.com/bengkelhub/bengkel-booking/internal/booking/http"
	"github.com/bengkelhub/bengkel-booking/internal/file"
	fileHttp "github.com/bengkelhub/bengkel-booking/internal/file/http"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/request"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
	"github.com/bengkelhub/bengkel-booking/internal/user"
)

// BookingLister provides a customer's booking history for the admin detail view.
type BookingLister interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]*booking.Booking, error)
}

type UserHandler struct {
	userService    user.Service
	bookings       BookingLister
	jwtManager     *auth.JWTManager
	fileHandler    *fileHttp.Handler
	maxUploadBytes int64
}

func NewHandler(userService user.Service, bookings BookingLister, jwtManager *auth.JWTManager, fileHandler *fileHttp.Handler, maxUploadBytes int64) *UserHandler {
	return &UserHandler{
		userService:    userService,
		bookings:       bookings,
		jwtManager:     jwtManager,
		fileHandler:    fileHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register handles the user registration process.
// It validates the payload and creates a new customer account if the email is unique.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	u, err := h.userService.Register(c.Request.Context(), user.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "registration successful", NewUserResponse(u))
}

// Login authenticates a user using email and password.
// On success, it returns a JWT access token and the user profile.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	u, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.ID, u.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "login successful", LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.jwtManager.TTL().Seconds()),
		User:      NewUserResponse(u),
	})
}

// Logout is a client-side operation for stateless tokens; it only acknowledges.
func (h *UserHandler) Logout(c *gin.Context) {
	response.Message(c, http.StatusOK, "logout successful", nil)
}

// Me retrieves the profile of the currently authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.userService.GetByID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, NewUserResponse(u))
}

// UpdateMe lets a user edit their own name, phone and address.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	u, err := h.userService.UpdateProfile(c.Request.Context(), auth.GetUserID(c), user.UpdateProfileRequest{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "profile updated", NewUserResponse(u))
}

// UploadAvatar stores a profile picture and links it to the caller.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID := auth.GetUserID(c)
	h.fileHandler.HandleFileUpload(c, fileHttp.FileUploadConfig{
		FormFieldName: "avatar",
		MaxSizeBytes:  h.maxUploadBytes,
		AllowedTypes:  file.ImageTypes,
		SuccessMsg:    "profile picture updated",
		AfterUpload: func(ctx context.Context, fileID string) (any, error) {
			u, err := h.userService.SetProfilePicture(ctx, userID, fileID)
			if err != nil {
				return nil, err
			}
			return NewUserResponse(u), nil
		},
	})
}

// ListCustomers returns a paginated, searchable customer list.
// Access Control: Admin only.
func (h *UserHandler) ListCustomers(c *gin.Context) {
	var req ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	users, total, err := h.userService.ListCustomers(c.Request.Context(), user.CustomerFilter{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]CustomerResponse, len(users))
	for i, u := range users {
		items[i] = NewCustomerResponse(u)
	}

	response.OK(c, http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// GetCustomer returns a customer with their bookings, newest first.
// Access Control: Admin only.
func (h *UserHandler) GetCustomer(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := c.Request.Context()

	u, err := h.userService.GetCustomer(ctx, req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.bookings.ListForCustomer(ctx, u.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	u.BookingsCount = len(bookings)

	response.OK(c, http.StatusOK, CustomerDetailResponse{
		CustomerResponse: NewCustomerResponse(u),
		Bookings:         bookingHttp.NewBookingList(bookings),
	})
}

// CreateCustomer adds a customer account on their behalf.
// Access Control: Admin only.
func (h *UserHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	u, err := h.userService.CreateCustomer(c.Request.Context(), user.CreateCustomerRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "customer created", NewCustomerResponse(u))
}

// UpdateCustomer modifies specific attributes of a customer.
// Access Control: Admin only.
func (h *UserHandler) UpdateCustomer(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body UpdateCustomerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	u, err := h.userService.UpdateCustomer(c.Request.Context(), uri.ID, user.UpdateCustomerRequest{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Address:  body.Address,
		IsActive: body.IsActive,
		Password: body.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "customer updated", NewCustomerResponse(u))
}

// DeleteCustomer removes a customer and, through the schema, their bookings.
// Access Control: Admin only.
func (h *UserHandler) DeleteCustomer(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.userService.DeleteCustomer(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "customer deleted", nil)
}

// CustomerStats returns customer counts for the admin dashboard.
// Access Control: Admin only.
func (h *UserHandler) CustomerStats(c *gin.Context) {
	stats, err := h.userService.CustomerStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, CustomerStatsResponse{
		Total:        stats.Total,
		Active:       stats.Active,
		NewThisMonth: stats.NewThisMonth,
	})
}
