package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config carries everything the services need at startup. It is built once
// in main and injected; packages never read environment variables themselves.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	TokenTTL    time.Duration
}

// Load builds the config from environment variables. DATABASE_URL wins over
// the discrete DB_* parts, mirroring typical hosting setups.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        os.Getenv("PORT"),
		TokenTTL:    24 * time.Hour,
	}

	if cfg.DatabaseURL == "" {
		host := os.Getenv("DB_HOST")
		port := os.Getenv("DB_PORT")
		user := os.Getenv("DB_USER")
		password := os.Getenv("DB_PASSWORD")
		dbname := os.Getenv("DB_NAME")
		if host != "" {
			cfg.DatabaseURL = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				host, user, password, dbname, port,
			)
		}
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL or DB_* variables are required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			return cfg, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = parsed
	}

	return cfg, nil
}
