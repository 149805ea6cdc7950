package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bengkelhub/bengkel-booking/internal/auth"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
	"github.com/bengkelhub/bengkel-booking/internal/user"
)

const requestIDHeader = "X-Request-ID"

// RequireAdmin ensures the authenticated user is an active admin.
// The role is re-read from storage so that demoted or disabled accounts
// lose access before their token expires.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin(userService user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == 0 {
			response.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if errors.Is(err, user.ErrNotFound) {
			response.Abort(c, http.StatusUnauthorized, "user not found")
			return
		}
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if !u.IsActive || !u.IsAdmin() {
			response.Abort(c, http.StatusForbidden, "forbidden: admin access required")
			return
		}

		c.Next()
	}
}

// RequestLogger attaches a request-scoped logger carrying a request id and
// logs one line per request.
func RequestLogger(base *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		logger := base.With().Str("request_id", reqID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var evt *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			evt = logger.Error()
		case status >= http.StatusBadRequest:
			evt = logger.Warn()
		default:
			evt = logger.Info()
		}

		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Str("client_ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Int64("user_id", auth.GetUserID(c)).
			Msg("request")
	}
}

// Recovery turns panics into a 500 envelope and logs them.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		zerolog.Ctx(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("panic recovered")
		response.Abort(c, http.StatusInternalServerError, "internal server error")
	})
}
