// Package config loads console settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Gateway  GatewayConfig
	API      APIConfig
	Redis    RedisConfig
	Session  SessionConfig
	Mutation MutationConfig
}

type GatewayConfig struct {
	Addr string `env:"CONSOLE_ADDR,        default=:8080"`
	Key  string `env:"CONSOLE_GATEWAY_KEY"`
}

type APIConfig struct {
	URL     string        `env:"API_URL,     default=http://localhost:4000/api"`
	Timeout time.Duration `env:"API_TIMEOUT, default=15s"`
	Token   string        `env:"API_TOKEN"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type SessionConfig struct {
	Email    string        `env:"CONSOLE_EMAIL"`
	Password string        `env:"CONSOLE_PASSWORD"`
	TTL      time.Duration `env:"SESSION_TTL, default=24h"`
}

type MutationConfig struct {
	Shards int `env:"SERIALIZER_SHARDS, default=16"`
}

// Load reads a .env file when present, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Production reports whether the console runs in production.
func (c *Config) Production() bool { return c.Env == "production" }

// RedisEnabled reports whether a session cache is configured.
func (c *Config) RedisEnabled() bool { return c.Redis.Addr != "" }

func (c *Config) validate() error {
	if c.API.URL == "" {
		return errors.New("API_URL must not be empty")
	}
	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL %q is not an absolute URL", c.API.URL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("API_TIMEOUT must be positive")
	}
	if c.Mutation.Shards <= 0 {
		return errors.New("SERIALIZER_SHARDS must be positive")
	}
	if (c.Session.Email == "") != (c.Session.Password == "") {
		return errors.New("CONSOLE_EMAIL and CONSOLE_PASSWORD must be set together")
	}
	return nil
}
