package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const PROD_STRING = "prod"

// Config holds all application configuration.
// Values come from an optional YAML file (CONFIG_FILE) and are overridden by environment variables.
type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Workshop  WorkshopConfig  `yaml:"workshop"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// IsProduction reports whether the app runs with the production profile.
func (a AppConfig) IsProduction() bool {
	return a.Environment == PROD_STRING
}

type HTTPConfig struct {
	Addr        string `yaml:"addr"`
	ProdOrigins string `yaml:"prod_origins"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"max_conns"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// WorkshopConfig describes the shop's operating schedule and chat behaviour.
type WorkshopConfig struct {
	Slots    []string   `yaml:"slots"`
	Timezone string     `yaml:"timezone"`
	Chat     ChatConfig `yaml:"chat"`

	location *time.Location
}

// Location returns the resolved workshop time zone. Valid after Validate.
func (w WorkshopConfig) Location() *time.Location {
	if w.location == nil {
		return time.UTC
	}
	return w.location
}

type ChatConfig struct {
	Rules        []ChatRule `yaml:"rules"`
	DefaultReply string     `yaml:"default_reply"`
}

// ChatRule maps any of its keywords to a canned reply. Rules are evaluated in order.
type ChatRule struct {
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

// RedisConfig is optional; an empty Address disables Redis.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type RateLimitConfig struct {
	AuthPerMinute          int `yaml:"auth_per_minute"`
	ChatPerMinute          int `yaml:"chat_per_minute"`
	// ChatPerClientPerMinute caps one client address across all chat sessions.
	ChatPerClientPerMinute int `yaml:"chat_per_client_per_minute"`
}

type StorageConfig struct {
	BasePath       string `yaml:"base_path"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// DefaultSlots is the daily slot set used when none is configured.
var DefaultSlots = []string{"08:00", "09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}

// Load loads configuration from .env (optional), CONFIG_FILE (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:        "bengkel-booking",
			Environment: "dev",
			Version:     "dev",
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Auth: AuthConfig{
			AccessTokenTTL: 24 * time.Hour,
			BcryptCost:     12,
		},
		Logging: LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
		Workshop: WorkshopConfig{
			Slots:    append([]string(nil), DefaultSlots...),
			Timezone: "Asia/Jakarta",
			Chat:     defaultChat(),
		},
		Redis: RedisConfig{PoolSize: 10},
		RateLimit: RateLimitConfig{
			AuthPerMinute:          10,
			ChatPerMinute:          20,
			ChatPerClientPerMinute: 60,
		},
		Storage: StorageConfig{
			BasePath:       "./data",
			MaxUploadBytes: 5 << 20,
		},
	}
}

func defaultChat() ChatConfig {
	return ChatConfig{
		Rules: []ChatRule{
			{Keywords: []string{"halo", "hi"}, Reply: "Halo! Selamat datang di bengkel kami. Ada yang bisa kami bantu?"},
			{Keywords: []string{"servis"}, Reply: "Kami menyediakan servis berkala, tune up mesin, ganti ban, service rem, service AC, dan full body treatment."},
			{Keywords: []string{"harga"}, Reply: "Harga servis mulai dari Rp 200.000. Jenis servis apa yang Anda butuhkan?"},
			{Keywords: []string{"jadwal"}, Reply: "Kami buka Senin-Jumat 08:00-18:00 dan Sabtu 08:00-16:00."},
			{Keywords: []string{"booking"}, Reply: "Untuk booking servis, silakan pilih layanan lalu tekan tombol \"Booking Servis\"."},
			{Keywords: []string{"lokasi"}, Reply: "Lokasi bengkel dapat dilihat pada halaman profil bengkel."},
		},
		DefaultReply: "Terima kasih sudah menghubungi kami. Admin akan segera membalas pesan Anda.",
	}
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.App.Environment = getEnv("APP_ENV", c.App.Environment)
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.HTTP.ProdOrigins = getEnv("PROD_ORIGINS", c.HTTP.ProdOrigins)
	c.Database.DSN = getEnv("DB_DSN", c.Database.DSN)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
	c.Workshop.Timezone = getEnv("WORKSHOP_TIMEZONE", c.Workshop.Timezone)
	c.Redis.Address = getEnv("REDIS_ADDR", c.Redis.Address)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Storage.BasePath = getEnv("STORAGE_PATH", c.Storage.BasePath)

	if v := getEnv("BOOKING_SLOTS", ""); v != "" {
		c.Workshop.Slots = splitList(v)
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "24h").
	if v := getEnv("JWT_ACCESS_TOKEN_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
		}
		c.Auth.AccessTokenTTL = ttl
	}

	var err error
	if c.Auth.BcryptCost, err = getEnvAsInt("BCRYPT_COST", c.Auth.BcryptCost); err != nil {
		return fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if c.Redis.DB, err = getEnvAsInt("REDIS_DB", c.Redis.DB); err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if c.RateLimit.AuthPerMinute, err = getEnvAsInt("RATE_LIMIT_AUTH_PER_MINUTE", c.RateLimit.AuthPerMinute); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_AUTH_PER_MINUTE: %w", err)
	}
	if c.RateLimit.ChatPerMinute, err = getEnvAsInt("RATE_LIMIT_CHAT_PER_MINUTE", c.RateLimit.ChatPerMinute); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_CHAT_PER_MINUTE: %w", err)
	}
	if c.RateLimit.ChatPerClientPerMinute, err = getEnvAsInt("RATE_LIMIT_CHAT_PER_CLIENT_PER_MINUTE", c.RateLimit.ChatPerClientPerMinute); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_CHAT_PER_CLIENT_PER_MINUTE: %w", err)
	}

	return nil
}

// Validate checks required settings and resolves derived values.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("DB_DSN is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return errors.New("auth.access_token_ttl must be positive")
	}
	if err := ValidateSlots(c.Workshop.Slots); err != nil {
		return fmt.Errorf("workshop.slots: %w", err)
	}

	loc, err := time.LoadLocation(c.Workshop.Timezone)
	if err != nil {
		return fmt.Errorf("workshop.timezone: %w", err)
	}
	c.Workshop.location = loc

	return nil
}

// ValidateSlots requires well-formed HH:MM labels in strictly increasing order.
func ValidateSlots(slots []string) error {
	if len(slots) == 0 {
		return errors.New("at least one slot is required")
	}

	var prev time.Time
	for i, s := range slots {
		t, err := time.Parse("15:04", s)
		if err != nil || t.Format("15:04") != s {
			return fmt.Errorf("invalid slot label %q", s)
		}
		if i > 0 && !t.After(prev) {
			return fmt.Errorf("slot %q is out of order or duplicated", s)
		}
		prev = t
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
