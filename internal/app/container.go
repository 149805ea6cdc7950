package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bengkelhub/bengkel-booking/internal/api"
	"github.com/bengkelhub/bengkel-booking/internal/auth"
	"github.com/bengkelhub/bengkel-booking/internal/booking"
	"github.com/bengkelhub/bengkel-booking/internal/catalog"
	"github.com/bengkelhub/bengkel-booking/internal/chat"
	"github.com/bengkelhub/bengkel-booking/internal/config"
	"github.com/bengkelhub/bengkel-booking/internal/dashboard"
	"github.com/bengkelhub/bengkel-booking/internal/file"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/storage"
	"github.com/bengkelhub/bengkel-booking/internal/ratelimit"
	"github.com/bengkelhub/bengkel-booking/internal/setting"
	"github.com/bengkelhub/bengkel-booking/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	App    *config.Config
	DBPool *pgxpool.Pool
	// Redis is optional; rate limits stay in memory without it.
	Redis  *redis.Client
	Logger *zerolog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	loc := cfg.App.Workshop.Location()

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.App.Auth.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.App.Auth.JWTSecret, cfg.App.Auth.AccessTokenTTL, cfg.App.App.Name)

	store, err := storage.NewLocalStorage(cfg.App.Storage.BasePath)
	if err != nil {
		return nil, err
	}

	// File Module
	fileService := file.NewService(file.NewRepository(cfg.DBPool), store, cfg.Logger)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, loc)

	// Catalog Module
	catalogService := catalog.NewCatalog(catalog.NewPgxRepository(cfg.DBPool))

	// Booking Module
	slots, err := booking.NewSlotSet(cfg.App.Workshop.Slots)
	if err != nil {
		return nil, fmt.Errorf("booking slots: %w", err)
	}
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, catalogService, slots, loc, cfg.Logger)

	// Dashboard Module
	dashboardService := dashboard.NewService(dashboard.NewPgxRepository(cfg.DBPool), loc)

	// Chat Module
	chatRepo := chat.NewPgxRepository(cfg.DBPool)
	chatService := chat.NewService(chatRepo, chat.NewResponder(cfg.App.Workshop.Chat), cfg.Logger)

	// Setting Module
	settingService := setting.NewService(setting.NewPgxRepository(cfg.DBPool))

	// API Router Config
	routerParams := api.Config{
		IsProduction:      cfg.App.App.IsProduction(),
		ProdOrigins:       cfg.App.HTTP.ProdOrigins,
		Location:          loc,
		MaxUploadBytes:    cfg.App.Storage.MaxUploadBytes,
		Logger:            cfg.Logger,
		UserService:       userService,
		CatalogService:    catalogService,
		BookingService:    bookingService,
		DashboardService:  dashboardService,
		ChatService:       chatService,
		SettingService:    settingService,
		FileService:       fileService,
		JWTManager:        jwtManager,
		AuthLimiter:       ratelimit.New(cfg.Redis, "auth", cfg.App.RateLimit.AuthPerMinute, cfg.Logger),
		ChatLimiter:       ratelimit.New(cfg.Redis, "chat", cfg.App.RateLimit.ChatPerMinute, cfg.Logger),
		ChatClientLimiter: ratelimit.New(cfg.Redis, "chat_ip", cfg.App.RateLimit.ChatPerClientPerMinute, cfg.Logger),
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
