// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the server configuration.
type Config struct {
	Addr        string
	FrontendURL string
	LogLevel    string

	StoreDriver string
	MongoURI    string
	MongoDB     string
	DatabaseURL string

	AdminToken         string
	AdminUsername      string
	AdminPassword      string
	AdminSessionSecret string
	AdminSessionTTL    time.Duration

	ContactRateLimit int
}

// Load reads a .env file when present, then the process environment.
// The returned Config has been validated.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		Addr:               getEnv("ADDR", ":8080"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:           getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGODB_DB", "portfolio"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
		AdminUsername:      os.Getenv("ADMIN_USERNAME"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		AdminSessionSecret: os.Getenv("ADMIN_SESSION_SECRET"),
	}

	var err error
	if cfg.AdminSessionTTL, err = time.ParseDuration(getEnv("ADMIN_SESSION_TTL", "12h")); err != nil {
		return nil, fmt.Errorf("parse ADMIN_SESSION_TTL: %w", err)
	}
	if cfg.ContactRateLimit, err = strconv.Atoi(getEnv("CONTACT_RATE_LIMIT", "5")); err != nil {
		return nil, fmt.Errorf("parse CONTACT_RATE_LIMIT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem found.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	hasPassword := c.AdminUsername != "" && c.AdminPassword != ""
	if c.AdminToken == "" && !hasPassword {
		errs = append(errs, errors.New("ADMIN_TOKEN or ADMIN_USERNAME and ADMIN_PASSWORD must be set"))
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together"))
	}
	if c.AdminSessionTTL <= 0 {
		errs = append(errs, errors.New("ADMIN_SESSION_TTL must be positive"))
	}
	if c.ContactRateLimit <= 0 {
		errs = append(errs, errors.New("CONTACT_RATE_LIMIT must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SessionSecret returns the key used to sign admin session tokens. Without an
// explicit ADMIN_SESSION_SECRET it is derived from the admin credentials, so
// rotating them also invalidates issued sessions.
func (c *Config) SessionSecret() string {
	if c.AdminSessionSecret != "" {
		return c.AdminSessionSecret
	}
	return c.AdminToken + ":" + c.AdminUsername + ":" + c.AdminPassword
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
