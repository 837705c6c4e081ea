package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration
type Config struct {
	Environment        string        `env:"ENVIRONMENT"                 envDefault:"development"`
	ServerPort         int           `env:"SERVER_PORT"                 envDefault:"8080"`
	LogLevel           string        `env:"LOG_LEVEL"                   envDefault:"info"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS"        envDefault:"http://localhost:5173,http://localhost:3000" envSeparator:","`
	RateLimitRPS       float64       `env:"RATE_LIMIT_RPS"              envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST"            envDefault:"40"`
	RedisURL           string        `env:"REDIS_URL"`
	AuditStream        string        `env:"AUDIT_STREAM"                envDefault:"giftexchange:audit"`
	StatsInterval      time.Duration `env:"STATS_INTERVAL"              envDefault:"15s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"            envDefault:"30s"`
	OTLPEndpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.ServerPort)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_RPS: %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_BURST: %d", c.RateLimitBurst)
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("invalid STATS_INTERVAL: %s", c.StatsInterval)
	}
	return nil
}

// AuditStreamEnabled reports whether audit events are published to Redis
func (c *Config) AuditStreamEnabled() bool {
	return c.RedisURL != ""
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
