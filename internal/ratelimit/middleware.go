package ratelimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bengkelhub/bengkel-booking/internal/metrics"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
)

// KeyFunc derives the bucket key for a request.
type KeyFunc func(c *gin.Context) string

// ByClientIP buckets requests per remote address.
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// Middleware rejects requests over budget with 429. Limiter errors let the request through.
func Middleware(l Limiter, scope string, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if k == "" {
			k = c.ClientIP()
		}
		if !Check(c, l, scope, k) {
			return
		}
		c.Next()
	}
}

// Check spends one unit of key's budget. When the budget is exhausted it
// aborts c with 429 and returns false.
func Check(c *gin.Context, l Limiter, scope, key string) bool {
	allowed, err := l.Allow(c.Request.Context(), scope+":"+key)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
		return true
	}
	if !allowed {
		metrics.RateLimited(scope)
		response.Abort(c, http.StatusTooManyRequests, "too many requests")
		return false
	}
	return true
}
