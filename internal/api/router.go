package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bengkelhub/bengkel-booking/internal/auth"
	"github.com/bengkelhub/bengkel-booking/internal/booking"
	bookingHttp "github.com/bengkelhub/bengkel-booking/internal/booking/http"
	"github.com/bengkelhub/bengkel-booking/internal/catalog"
	catalogHttp "github.com/bengkelhub/bengkel-booking/internal/catalog/http"
	"github.com/bengkelhub/bengkel-booking/internal/chat"
	chatHttp "github.com/bengkelhub/bengkel-booking/internal/chat/http"
	"github.com/bengkelhub/bengkel-booking/internal/dashboard"
	dashboardHttp "github.com/bengkelhub/bengkel-booking/internal/dashboard/http"
	"github.com/bengkelhub/bengkel-booking/internal/file"
	fileHttp "github.com/bengkelhub/bengkel-booking/internal/file/http"
	"github.com/bengkelhub/bengkel-booking/internal/metrics"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
	"github.com/bengkelhub/bengkel-booking/internal/ratelimit"
	"github.com/bengkelhub/bengkel-booking/internal/setting"
	settingHttp "github.com/bengkelhub/bengkel-booking/internal/setting/http"
	"github.com/bengkelhub/bengkel-booking/internal/user"
	userHttp "github.com/bengkelhub/bengkel-booking/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	Location       *time.Location
	MaxUploadBytes int64
	Logger         *zerolog.Logger

	UserService      user.Service
	CatalogService   catalog.Catalog
	BookingService   booking.Service
	DashboardService dashboard.Service
	ChatService      chat.Service
	SettingService   setting.Service
	FileService      file.Service
	JWTManager       *auth.JWTManager

	AuthLimiter       ratelimit.Limiter
	ChatLimiter       ratelimit.Limiter
	ChatClientLimiter ratelimit.Limiter
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, logging, metrics, auth) and registering routes for every module.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - RequestLogger: request-scoped zerolog logger plus one access line.
	// - Recovery: captures panics and answers with the error envelope.
	// - metrics: Prometheus request counters and latency.
	r.Use(RequestLogger(cfg.Logger), Recovery(), metrics.Middleware())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader, "Content-Disposition"}
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Abort(c, http.StatusNotFound, "endpoint not found")
	})

	r.GET("/healthz", func(c *gin.Context) {
		response.OK(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	optionalAuth := auth.OptionalAuth(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user is an active admin.
	adminMiddleware := RequireAdmin(cfg.UserService)
	authLimit := ratelimit.Middleware(cfg.AuthLimiter, "auth", ratelimit.ByClientIP)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	fileHandler := fileHttp.NewHandler(cfg.FileService)
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.BookingService, cfg.JWTManager, fileHandler, cfg.MaxUploadBytes)
	catalogHandler := catalogHttp.NewHandler(cfg.CatalogService, fileHandler, cfg.MaxUploadBytes)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	dashboardHandler := dashboardHttp.NewHandler(cfg.DashboardService)
	chatHandler := chatHttp.NewHandler(cfg.ChatService, cfg.ChatLimiter, cfg.ChatClientLimiter, cfg.Location)
	settingHandler := settingHttp.NewHandler(cfg.SettingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware, authLimit)
		catalogHttp.RegisterRoutes(v1, catalogHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		dashboardHttp.RegisterRoutes(v1, dashboardHandler, authMiddleware, adminMiddleware)
		chatHttp.RegisterRoutes(v1, chatHandler, optionalAuth, authMiddleware, adminMiddleware)
		settingHttp.RegisterRoutes(v1, settingHandler, authMiddleware, adminMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler)
	}

	return r
}

func splitOrigins(v string) []string {
	var out []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
