package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/validation"
)

// MalformedBody is reported when a request cannot be decoded at all.
const MalformedBody = "malformed request body"

// ErrorResponse defines the JSON structure for failed requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   any    `json:"error,omitempty"`
}

// Error sends a JSON error response.
// AppErrors carry their own status code; anything else is logged and reported as 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		resp := ErrorResponse{Message: appErr.Message}
		if len(appErr.Fields) > 0 {
			resp.Error = appErr.Fields
		}
		c.JSON(appErr.Code, resp)
		return
	}

	zerolog.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("path", c.FullPath()).
		Msg("unexpected error")

	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Message: message})
}

// BindError reports a request binding failure as 400. Validation failures
// carry per-field details; decoder errors only a fixed message.
func BindError(c *gin.Context, err error) {
	resp := ErrorResponse{Message: "invalid request"}

	if fields := validation.Fields(err); fields != nil {
		resp.Error = fields
	} else {
		zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("request binding failed")
		resp.Error = MalformedBody
	}

	c.JSON(http.StatusBadRequest, resp)
}
