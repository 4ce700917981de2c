package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string

	// HTTP server
	HTTPHost string
	HTTPPort int

	// Database
	DBDriver    string // "sqlite" or "postgres"
	DatabaseURL string // sqlite file path, or postgres DSN

	// Sessions (flash message signing)
	SessionSecret string

	// External metadata API. An empty key is tolerated at startup and
	// disables fetch-mode.
	OMDbAPIURL string
	OMDbAPIKey string

	// Logging
	LogLevel string
	LogJSON  bool
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file.
func Load() (*Config, error) {
	// A missing .env file is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{}

	loadEnvString(&cfg.GoEnv, "GO_ENV", "development")
	loadEnvString(&cfg.HTTPHost, "HTTP_HOST", "0.0.0.0")
	if err := loadEnvInt(&cfg.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	loadEnvString(&cfg.DBDriver, "DB_DRIVER", "sqlite")
	loadEnvString(&cfg.DatabaseURL, "DATABASE_URL", "./data/movies.db")

	if err := loadEnvStringRequired(&cfg.SessionSecret, "SESSION_SECRET"); err != nil {
		return nil, err
	}

	loadEnvString(&cfg.OMDbAPIURL, "OMDB_API_URL", "https://www.omdbapi.com/")
	loadEnvString(&cfg.OMDbAPIKey, "OMDB_API_KEY", "")

	loadEnvString(&cfg.LogLevel, "LOG_LEVEL", "info")
	if err := loadEnvBool(&cfg.LogJSON, "LOG_JSON", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate performs sanity checks on the loaded configuration.
func (c *Config) Validate() error {
	var problems []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		problems = append(problems, "HTTP_PORT must be between 1 and 65535")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER %q is not supported (sqlite, postgres)", c.DBDriver))
	}
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.LogLevel) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLevels, ", ")))
	}
	if len(c.SessionSecret) < 16 {
		problems = append(problems, "SESSION_SECRET should be at least 16 characters long")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// FetchEnabled reports whether metadata fetch-mode can be offered to users.
func (c *Config) FetchEnabled() bool {
	return c.OMDbAPIKey != ""
}

func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

func loadEnvString(target *string, key, defaultValue string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
