package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewCode builds a booking code such as BK-20260115-4F1A9C03B2D7.
func NewCode(createdAt time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
	return "BK-" + createdAt.Format("20060102") + "-" + suffix
}
