package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Port     string `env:"PORT" envDefault:"5000"`
	StoreDSN string `env:"STORE_DSN" envDefault:"user:password@tcp(localhost:3306)/passvault?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"change-me"`
	// TokenTTL of zero issues tokens without an exp claim.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	RedisAddr string `env:"REDIS_ADDR"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	BreachAPIURL  string        `env:"BREACH_API_URL" envDefault:"https://passwordsleakcheck.googleapis.com/v1/checkPassword"`
	BreachTimeout time.Duration `env:"BREACH_TIMEOUT" envDefault:"5s"`

	MinPasswordEntropy float64 `env:"MIN_PASSWORD_ENTROPY" envDefault:"0"`

	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"passvault"`
	SwaggerHost  string `env:"SWAGGER_HOST"`
}

// Load reads an optional .env file and builds Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.TokenTTL < 0 {
		return nil, errors.New("TOKEN_TTL must not be negative")
	}
	return cfg, nil
}
