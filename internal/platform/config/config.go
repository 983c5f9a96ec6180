package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv          string   `env:"APP_ENV" default:"development"`
	Port            string   `env:"PORT" default:"3001"`
	AllowedOrigins  []string `env:"ALLOWED_ORIGINS" default:"http://localhost:8000,http://127.0.0.1:8000,http://localhost:3001"`
	APISecret       string   `env:"WEBSOCKET_API_SECRET"`
	LegacyAPISecret string   `env:"API_SECRET"`
	LogLevel        string   `env:"LOG_LEVEL" default:"info"`
	LogFormat       string   `env:"LOG_FORMAT" default:"text"`

	MaxWebSocketConnections int `env:"MAX_WEBSOCKET_CONNECTIONS" default:"10000"`

	BroadcastRateLimit float64 `env:"BROADCAST_RATE_LIMIT" default:"20"`
	BroadcastRateBurst int     `env:"BROADCAST_RATE_BURST" default:"40"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, &env.Options{SliceSep: ","}); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if cfg.APISecret == "" {
		cfg.APISecret = cfg.LegacyAPISecret
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.APISecret == "" {
		return errors.New("WEBSOCKET_API_SECRET is required")
	}

	if len(cfg.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	for _, origin := range cfg.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("ALLOWED_ORIGINS contains invalid origin %q", origin)
		}
	}

	if cfg.MaxWebSocketConnections <= 0 {
		return errors.New("MAX_WEBSOCKET_CONNECTIONS must be positive")
	}

	if cfg.BroadcastRateLimit <= 0 || cfg.BroadcastRateBurst <= 0 {
		return errors.New("BROADCAST_RATE_LIMIT and BROADCAST_RATE_BURST must be positive")
	}

	return nil
}
