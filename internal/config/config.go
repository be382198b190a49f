package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	Environment string   `env:"ENVIRONMENT" envDefault:"dev"`
	Version     string   `env:"APP_VERSION" envDefault:"dev"`
	TablePrefix string   // derived from Environment unless TABLE_PREFIX is set
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Store
	StoreDriver        string        `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	SQLitePath         string        `env:"SQLITE_PATH" envDefault:"projectdash.db"`
	DBMaxConns         int32         `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns         int32         `env:"DB_MIN_CONNS" envDefault:"5"`
	DBStatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"10s"`
	AutoMigrate        bool          `env:"AUTO_MIGRATE" envDefault:"false"`

	// Auth (verification only; tokens are issued elsewhere)
	JWKSURL      string `env:"AUTH_JWKS_URL"`
	JWTSecret    string `env:"AUTH_JWT_SECRET"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthAudience string `env:"AUTH_AUDIENCE"`

	// Logging
	LogLevel    string `env:"LOG_LEVEL"`
	LogDir      string `env:"LOG_DIR"`
	LogMaxFiles int    `env:"LOG_MAX_FILES" envDefault:"10"`

	// Rate limiting, per client
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Listing
	ListDefaultLimit int `env:"LIST_DEFAULT_LIMIT" envDefault:"10"`
	ListMaxLimit     int `env:"LIST_MAX_LIMIT" envDefault:"100"`

	// Dashboard
	DashboardRecentCount       int    `env:"DASHBOARD_RECENT_COUNT" envDefault:"5"`
	DashboardSnapshot          bool   `env:"DASHBOARD_SNAPSHOT" envDefault:"false"`
	DashboardSyntheticActivity bool   `env:"DASHBOARD_SYNTHETIC_ACTIVITY" envDefault:"false"`
	DashboardTimezone          string `env:"DASHBOARD_TIMEZONE" envDefault:"UTC"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.TablePrefix = getTablePrefix(cfg.Environment)
	if cfg.LogLevel == "" {
		cfg.LogLevel = getDefaultLogLevel(cfg.Environment)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.StoreDriver))
	}

	if c.ListDefaultLimit < 1 || c.ListMaxLimit < c.ListDefaultLimit {
		errs = append(errs, errors.New("LIST_DEFAULT_LIMIT must be >= 1 and <= LIST_MAX_LIMIT"))
	}
	if c.DashboardRecentCount < 1 {
		errs = append(errs, errors.New("DASHBOARD_RECENT_COUNT must be >= 1"))
	}
	if _, err := time.LoadLocation(c.DashboardTimezone); err != nil {
		errs = append(errs, fmt.Errorf("DASHBOARD_TIMEZONE: %w", err))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateAuth checks the settings only the API server needs.
func (c *Config) ValidateAuth() error {
	if c.JWKSURL == "" && c.JWTSecret == "" {
		return errors.New("one of AUTH_JWKS_URL or AUTH_JWT_SECRET is required")
	}
	return nil
}

// Location returns the dashboard time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DashboardTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getDefaultLogLevel returns the default log level based on environment
func getDefaultLogLevel(env string) string {
	if env == "dev" {
		return "debug"
	}
	return "info"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}
