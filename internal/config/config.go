package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	API        APIConfig
	Auth       AuthConfig
	Biometrics BiometricsConfig
	UI         UIConfig
	Storage    StorageConfig
	Network    NetworkConfig
	Breaker    BreakerConfig
	Sentry     SentryConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Version  string
	Env      string
	LogLevel string
}

// APIConfig holds the backend origin and request timeouts
type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
}

// AuthConfig holds the key names used in the persistent key-value store
type AuthConfig struct {
	TokenKey        string
	RefreshTokenKey string
	UserKey         string
	SessionKey      string
	PushTokenKey    string
	OnboardingKey   string
}

type BiometricsConfig struct {
	PromptMessage    string
	CancelButtonText string
}

type UIConfig struct {
	Theme ThemeConfig
}

type ThemeConfig struct {
	PrimaryColor   string
	SecondaryColor string
	SuccessColor   string
	ErrorColor     string
	WarningColor   string
}

// StorageConfig selects the key-value backend
type StorageConfig struct {
	Type          string
	BasePath      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
}

type NetworkConfig struct {
	ProbeInterval time.Duration
	ProbeURL      string
}

type BreakerConfig struct {
	Enabled     bool
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "Trusted HRM"),
		Version:  getEnv("APP_VERSION", "1.0.0"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	apiTimeout, err := getEnvDuration("API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	uploadTimeout, err := getEnvDuration("API_UPLOAD_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	config.API = APIConfig{
		BaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "https://attendance.curelogics.org"), "/"),
		Timeout:       apiTimeout,
		UploadTimeout: uploadTimeout,
	}

	config.Auth = AuthConfig{
		TokenKey:        getEnv("AUTH_TOKEN_KEY", "auth_token"),
		RefreshTokenKey: getEnv("AUTH_REFRESH_TOKEN_KEY", "refresh_token"),
		UserKey:         getEnv("AUTH_USER_KEY", "user_data"),
		SessionKey:      getEnv("AUTH_SESSION_KEY", "attendance_session"),
		PushTokenKey:    getEnv("AUTH_PUSH_TOKEN_KEY", "fcm_token"),
		OnboardingKey:   getEnv("AUTH_ONBOARDING_KEY", "has_seen_welcome"),
	}

	config.Biometrics = BiometricsConfig{
		PromptMessage:    getEnv("BIOMETRIC_PROMPT_MESSAGE", "Confirm Attendance"),
		CancelButtonText: getEnv("BIOMETRIC_CANCEL_TEXT", "Cancel"),
	}

	config.UI = UIConfig{
		Theme: ThemeConfig{
			PrimaryColor:   "#5B4BFF",
			SecondaryColor: "#FF7A00",
			SuccessColor:   "#10B981",
			ErrorColor:     "#EF4444",
			WarningColor:   "#F59E0B",
		},
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	config.Storage = StorageConfig{
		Type:          getEnv("STORAGE_TYPE", "local"),
		BasePath:      getEnv("STORAGE_BASE_PATH", defaultStoragePath()),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		DatabaseURL:   getEnv("DATABASE_URL", ""),
	}

	probeInterval, err := getEnvDuration("NETWORK_PROBE_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}
	config.Network = NetworkConfig{
		ProbeInterval: probeInterval,
		ProbeURL:      getEnv("NETWORK_PROBE_URL", config.API.BaseURL),
	}

	breakerEnabled, err := strconv.ParseBool(getEnv("BREAKER_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_ENABLED: %w", err)
	}
	breakerMax, err := strconv.ParseUint(getEnv("BREAKER_MAX_REQUESTS", "1"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_MAX_REQUESTS: %w", err)
	}
	breakerInterval, err := getEnvDuration("BREAKER_INTERVAL", 60*time.Second)
	if err != nil {
		return nil, err
	}
	breakerTimeout, err := getEnvDuration("BREAKER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	config.Breaker = BreakerConfig{
		Enabled:     breakerEnabled,
		MaxRequests: uint32(breakerMax),
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
	}

	config.Sentry = SentryConfig{
		DSN:         getEnv("SENTRY_DSN", ""),
		Environment: getEnv("SENTRY_ENVIRONMENT", config.App.Env),
		Release:     getEnv("SENTRY_RELEASE", config.App.Version),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.API.Timeout <= 0 || c.API.UploadTimeout <= 0 {
		return fmt.Errorf("API timeouts must be positive")
	}
	if c.Auth.TokenKey == "" || c.Auth.RefreshTokenKey == "" {
		return fmt.Errorf("AUTH_TOKEN_KEY and AUTH_REFRESH_TOKEN_KEY are required")
	}
	switch c.Storage.Type {
	case "local":
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required for local storage")
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for redis storage")
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres storage")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hrisctl"
	}
	return home + string(os.PathSeparator) + ".hrisctl"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
