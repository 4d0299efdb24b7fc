package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPAddr         string
	Store            string
	DBDSN            string
	DBDriver         string
	DBConnectTimeout time.Duration
	AutoMigrate      bool
	EnableMetrics    bool
	EnableSwagger    bool
	LogLevel         string
	Environment      string

	// Front end settings used by assetctl.
	APIBaseURL  string
	APITimeout  time.Duration
	FeedbackTTL time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		Store:            getEnv("STORE", StorePostgres),
		DBDSN:            getEnv("DB_DSN", ""),
		DBDriver:         getEnv("DB_DRIVER", "pgx"),
		DBConnectTimeout: getDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		AutoMigrate:      getBool("AUTO_MIGRATE", false),
		EnableMetrics:    getBool("ENABLE_METRICS", false),
		EnableSwagger:    getBool("ENABLE_SWAGGER", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		APIBaseURL:       getEnv("API_BASE_URL", "http://localhost:8080"),
		APITimeout:       getDuration("API_TIMEOUT", 10*time.Second),
		FeedbackTTL:      getDuration("FEEDBACK_TTL", 3*time.Second),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DBDSN == "" {
			result = multierror.Append(result, errors.New("DB_DSN is required when STORE=postgres"))
		}
		if c.DBDriver != "pgx" && c.DBDriver != "postgres" {
			result = multierror.Append(result, fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", c.DBDriver))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("STORE must be memory or postgres, got %q", c.Store))
	}

	if c.DBConnectTimeout <= 0 {
		result = multierror.Append(result, errors.New("DB_CONNECT_TIMEOUT must be positive"))
	}
	if c.APITimeout <= 0 {
		result = multierror.Append(result, errors.New("API_TIMEOUT must be positive"))
	}
	if c.FeedbackTTL <= 0 {
		result = multierror.Append(result, errors.New("FEEDBACK_TTL must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		result = multierror.Append(result, fmt.Errorf("API_BASE_URL must be an http(s) URL, got %q", c.APIBaseURL))
	}

	return result.ErrorOrNil()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
