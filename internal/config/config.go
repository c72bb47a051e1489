// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecret is the process-wide HMAC signing secret. Required.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTAlgorithm is the signing algorithm identifier. Only HS256 is supported.
	JWTAlgorithm string `mapstructure:"JWT_ALGORITHM"`
	// AccessTokenTTLMinutes is the access token lifetime in minutes (default 15).
	AccessTokenTTLMinutes int `mapstructure:"ACCESS_TOKEN_TTL_MINUTES"`
	// RefreshTokenTTLDays is the refresh token lifetime in days (default 7).
	RefreshTokenTTLDays int `mapstructure:"REFRESH_TOKEN_TTL_DAYS"`
	// VerificationCodeExpireHours is the advertised verification code lifetime.
	// Codes are not currently aged out at validation time; see internal/verification.
	VerificationCodeExpireHours int `mapstructure:"VERIFICATION_CODE_EXPIRE_HOURS"`
	// UnverifiedRetentionDays is how long unverified accounts are kept before the reaper removes them (default 2).
	UnverifiedRetentionDays int `mapstructure:"UNVERIFIED_RETENTION_DAYS"`
	// ReaperInterval is how often the reaper runs (e.g. "1h").
	ReaperInterval string `mapstructure:"REAPER_INTERVAL"`
	// BcryptCost is the bcrypt cost factor (4-31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// ResendAPIKey enables the Resend email sender when set; empty falls back to the console sink.
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	// EmailFrom is the From address for verification emails.
	EmailFrom string `mapstructure:"EMAIL_FROM"`
	// OTLPEndpoint enables OTLP trace/metric export when set (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_TTL_MINUTES", 15)
	v.SetDefault("REFRESH_TOKEN_TTL_DAYS", 7)
	v.SetDefault("VERIFICATION_CODE_EXPIRE_HOURS", 24)
	v.SetDefault("UNVERIFIED_RETENTION_DAYS", 2)
	v.SetDefault("REAPER_INTERVAL", "1h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}
	if cfg.JWTAlgorithm != "HS256" {
		return nil, fmt.Errorf("config: JWT_ALGORITHM must be HS256, got %q", cfg.JWTAlgorithm)
	}
	if cfg.AccessTokenTTLMinutes <= 0 {
		return nil, errors.New("config: ACCESS_TOKEN_TTL_MINUTES must be positive")
	}
	if cfg.RefreshTokenTTLDays <= 0 {
		return nil, errors.New("config: REFRESH_TOKEN_TTL_DAYS must be positive")
	}
	if cfg.UnverifiedRetentionDays <= 0 {
		return nil, errors.New("config: UNVERIFIED_RETENTION_DAYS must be positive")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL returns the access token lifetime as a time.Duration.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a time.Duration.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLDays) * 24 * time.Hour
}

// RetentionWindow returns how long unverified accounts are retained.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.UnverifiedRetentionDays) * 24 * time.Hour
}

// ReaperTick parses ReaperInterval as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) ReaperTick() time.Duration {
	d, err := time.ParseDuration(c.ReaperInterval)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}
