// Package config loads the client configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/time/rate"

	"github.com/luciancaetano/colonynet/internal/websocket"
)

// Config is the client configuration.
type Config struct {
	ServerURL          string        `env:"COLONYNET_SERVER_URL"            envDefault:"ws://localhost:8080/ws"`
	PlayerID           string        `env:"COLONYNET_PLAYER_ID,required,notEmpty"`
	RateLimitPerSecond float64       `env:"COLONYNET_RATE_LIMIT_PER_SECOND" envDefault:"100"`
	RateLimitBurst     int           `env:"COLONYNET_RATE_LIMIT_BURST"      envDefault:"200"`
	RateLimitEnabled   bool          `env:"COLONYNET_RATE_LIMIT_ENABLED"    envDefault:"true"`
	UIQueueSize        int           `env:"COLONYNET_UI_QUEUE_SIZE"         envDefault:"256"`
	HandshakeTimeout   time.Duration `env:"COLONYNET_HANDSHAKE_TIMEOUT"     envDefault:"5s"`
	LogLevel           string        `env:"COLONYNET_LOG_LEVEL"             envDefault:"info"`
	LogFormat          string        `env:"COLONYNET_LOG_FORMAT"            envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the client configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values env parsing cannot.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}
	if c.RateLimitEnabled && (c.RateLimitPerSecond <= 0 || c.RateLimitBurst <= 0) {
		return fmt.Errorf("rate limit must be positive, got %v/s burst %d", c.RateLimitPerSecond, c.RateLimitBurst)
	}
	if c.UIQueueSize < 0 {
		return fmt.Errorf("ui queue size must not be negative, got %d", c.UIQueueSize)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// RateLimit converts the rate limit settings for the transport.
func (c Config) RateLimit() *websocket.RateLimitConfig {
	if !c.RateLimitEnabled {
		return websocket.NoRateLimit()
	}
	return &websocket.RateLimitConfig{
		MessagesPerSecond: rate.Limit(c.RateLimitPerSecond),
		Burst:             c.RateLimitBurst,
		Enabled:           true,
	}
}

// Logger builds the process logger writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
