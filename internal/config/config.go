package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr       = ":8080"
	defaultDatabaseURL    = "file:txunajob.db?_time_format=sqlite"
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultJWTTTL         = "24h"
	defaultStoreTimeout   = "5s"
	defaultReportCacheTTL = "30s"
	defaultLoginRate      = "1"
	defaultLoginBurst     = "5"
	defaultLogLevel       = "info"

	// development-only admin, never used when APP_ENV is production-like
	fallbackAdminUsername = "txunajob_admin"
	fallbackAdminEmail    = "admin@txunajob.local"
	fallbackAdminPassword = "admin_temp_password_123"
)

type AdminCredentials struct {
	Username string
	Email    string
	Password string
	// Fallback is set when the built-in development credentials are used.
	Fallback bool
}

func (c AdminCredentials) Complete() bool {
	return strings.TrimSpace(c.Username) != "" &&
		strings.TrimSpace(c.Email) != "" &&
		c.Password != ""
}

type Config struct {
	AppEnv               string
	HTTPAddr             string
	DatabaseURL          string
	JWTSecret            string
	JWTTTL               time.Duration
	StoreTimeout         time.Duration
	DemoMode             bool
	AdminRegistrationKey string
	DefaultAdmin         AdminCredentials
	RedisAddr            string
	RedisPassword        string
	ReportCacheTTL       time.Duration
	LoginRatePerSec      float64
	LoginBurst           int
	CORSAllowedOrigins   string
	LogLevel             string
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.DemoMode = parseBoolEnv("DEMO_MODE", "false")
	cfg.AdminRegistrationKey = strings.TrimSpace(os.Getenv("ADMIN_REGISTRATION_KEY"))
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.CORSAllowedOrigins = strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = parseDurationEnv("STORE_TIMEOUT", defaultStoreTimeout); err != nil {
		return nil, err
	}
	if cfg.ReportCacheTTL, err = parseDurationEnv("REPORT_CACHE_TTL", defaultReportCacheTTL); err != nil {
		return nil, err
	}
	if cfg.LoginRatePerSec, err = parseFloatEnv("LOGIN_RATE_PER_SEC", defaultLoginRate); err != nil {
		return nil, err
	}
	if cfg.LoginBurst, err = parseIntEnv("LOGIN_BURST", defaultLoginBurst); err != nil {
		return nil, err
	}

	cfg.DefaultAdmin = loadAdminCredentials(cfg.AppEnv)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAdminCredentials reads DEFAULT_ADMIN_*. Outside production, an
// entirely unset trio falls back to development credentials flagged as
// such; a partially set trio is returned as-is and the bootstrap skips it.
func loadAdminCredentials(appEnv string) AdminCredentials {
	creds := AdminCredentials{
		Username: strings.TrimSpace(os.Getenv("DEFAULT_ADMIN_USERNAME")),
		Email:    strings.TrimSpace(os.Getenv("DEFAULT_ADMIN_EMAIL")),
		Password: os.Getenv("DEFAULT_ADMIN_PASSWORD"),
	}
	if isProdLike(appEnv) {
		return creds
	}
	if creds.Username == "" && creds.Email == "" && creds.Password == "" {
		return AdminCredentials{
			Username: fallbackAdminUsername,
			Email:    fallbackAdminEmail,
			Password: fallbackAdminPassword,
			Fallback: true,
		}
	}
	return creds
}

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be > 0")
	}
	if cfg.ReportCacheTTL < 0 {
		return fmt.Errorf("REPORT_CACHE_TTL must be >= 0")
	}
	if cfg.LoginRatePerSec <= 0 || cfg.LoginBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_SEC and LOGIN_BURST must be > 0")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.DemoMode {
			return fmt.Errorf("in prod/release DEMO_MODE must be off")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
