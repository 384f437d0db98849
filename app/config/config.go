package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

const (
	SettingsStoreDatabase = "database"
	SettingsStoreMemory   = "memory"
)

type Config struct {
	HTTPAddr string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// DBDriver is the database/sql driver behind gorm: "pgx" or "postgres" (lib/pq).
	DBDriver string

	AdminToken    string
	SettingsStore string
	LogLevel      string
}

// LoadConfig reads .env when one exists in the working directory, then the
// process environment. Variables already set in the environment win over .env.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	cfg := &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "catalog"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		DBDriver:         getEnv("DB_DRIVER", "pgx"),
		AdminToken:       getEnv("ADMIN_TOKEN", ""),
		SettingsStore:    getEnv("SETTINGS_STORE", SettingsStoreDatabase),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", c.DBDriver)
	}
	switch c.SettingsStore {
	case SettingsStoreDatabase, SettingsStoreMemory:
	default:
		return fmt.Errorf("SETTINGS_STORE must be %s or %s, got %q", SettingsStoreDatabase, SettingsStoreMemory, c.SettingsStore)
	}
	return nil
}

// DSN is the Postgres connection URL.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     c.PostgresHost + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: url.Values{"sslmode": {c.PostgresSSLMode}}.Encode(),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
