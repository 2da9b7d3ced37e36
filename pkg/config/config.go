// Package config reads the server settings from the environment. A .env file
// in the working directory is loaded first; variables already set in the
// environment take precedence over it.
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

const (
	UsersBackendMongo    = "mongo"
	UsersBackendPostgres = "postgres"
)

type Config struct {
	Addr           string
	MongoURI       string
	MongoDB        string
	UsersBackend   string
	PostgresDSN    string
	JWTSecret      string
	TokenTTL       time.Duration
	LogLevel       string
	AllowedOrigins []string
	StaticPath     string
	Seed           bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed reading .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:         getenv("ADDR", ":5000"),
		MongoURI:     getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGODB_DB", "forum"),
		UsersBackend: strings.ToLower(getenv("USERS_BACKEND", UsersBackendMongo)),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		StaticPath:   getenv("STATIC_PATH", "frontend/build"),
	}

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "168h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("config: invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	if raw := os.Getenv("SEED"); raw != "" {
		seed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("config: invalid SEED %q: %w", raw, err)
		}
		cfg.Seed = seed
	}

	for _, origin := range strings.Split(getenv("ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.UsersBackend {
	case UsersBackendMongo:
	case UsersBackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("config: POSTGRES_DSN is required for the postgres users backend")
		}
	default:
		return fmt.Errorf("config: unknown USERS_BACKEND %q", c.UsersBackend)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
