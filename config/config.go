// Package config loads the client configuration from the environment.
package config

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIBase  string        `env:"SB_API_BASE"` // api.DefaultBase when empty
	Timeout  time.Duration `env:"SB_TIMEOUT,  default=30s"`
	Currency string        `env:"SB_CURRENCY, default=USD"`
	Password string        `env:"SB_PASSWORD"`

	Session SessionConfig
	Log     LogConfig
}

type SessionConfig struct {
	File      string `env:"SB_SESSION_FILE"` // session.DefaultFile() when empty
	RedisAddr string `env:"SB_SESSION_REDIS_ADDR"`
	RedisDB   int    `env:"SB_SESSION_REDIS_DB,  default=0"`
	Profile   string `env:"SB_SESSION_PROFILE,   default=default"`
}

// Redis reports whether the session lives in Redis rather than in a file.
func (c SessionConfig) Redis() bool { return c.RedisAddr != "" }

type LogConfig struct {
	Level  string `env:"SB_LOG_LEVEL,  default=warn"`
	Format string `env:"SB_LOG_FORMAT, default=console"` // console or json
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("config: SB_TIMEOUT must be positive, got %v", cfg.Timeout)
	}
	if f := cfg.Log.Format; f != "console" && f != "json" {
		return nil, fmt.Errorf("config: SB_LOG_FORMAT must be console or json, got %q", f)
	}
	return &cfg, nil
}

// Environ returns cfg as environment assignments, the way extensions
// receive it. The password is never passed on.
func (cfg *Config) Environ() []string {
	return []string{
		"SB_API_BASE=" + cfg.APIBase,
		"SB_TIMEOUT=" + cfg.Timeout.String(),
		"SB_CURRENCY=" + cfg.Currency,
		"SB_SESSION_FILE=" + cfg.Session.File,
		"SB_SESSION_REDIS_ADDR=" + cfg.Session.RedisAddr,
		"SB_SESSION_REDIS_DB=" + strconv.Itoa(cfg.Session.RedisDB),
		"SB_SESSION_PROFILE=" + cfg.Session.Profile,
		"SB_LOG_LEVEL=" + cfg.Log.Level,
		"SB_LOG_FORMAT=" + cfg.Log.Format,
	}
}
