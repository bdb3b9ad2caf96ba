package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string

	// Batch jobs
	CronSecret        string
	SchedulerLocation *time.Location
	CronRateLimit     string // ulule/limiter formatted rate, e.g. "10-M"

	CORSAllowedOrigins []string
	PosthogAPIKey      string
	EventBufferSize    int
	MigrationsPath     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("CRON_SECRET", "")
	v.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	v.SetDefault("CRON_RATE_LIMIT", "10-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("EVENT_BUFFER_SIZE", 256)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:     v.GetString("PGSQL_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTIssuer:       v.GetString("JWT_ISSUER"),
		CronSecret:      v.GetString("CRON_SECRET"),
		CronRateLimit:   v.GetString("CRON_RATE_LIMIT"),
		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		EventBufferSize: v.GetInt("EVENT_BUFFER_SIZE"),
		MigrationsPath:  v.GetString("MIGRATIONS_PATH"),
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT environment variable not set, using default", slog.String("port", cfg.Port))
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.CronSecret == "" {
		slog.Warn("CRON_SECRET not set, cron endpoints are unauthenticated.")
	}

	tz := v.GetString("SCHEDULER_TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_TIMEZONE %q: %w", tz, err)
	}
	cfg.SchedulerLocation = loc

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.EventBufferSize <= 0 {
		slog.Warn("Invalid EVENT_BUFFER_SIZE, using default", slog.Int("value", cfg.EventBufferSize))
		cfg.EventBufferSize = 256
	}

	return cfg, nil
}
