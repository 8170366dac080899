package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joshdurbin/linkbio/internal/ratelimit"
	"github.com/joshdurbin/linkbio/internal/shortener"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Logging   LoggingConfig
	Shortener shortener.Config
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Auth      AuthConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	BaseURL         string // prefix of the short URLs handed back to clients
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string
}

// CacheConfig holds deeplink config cache settings
type CacheConfig struct {
	Backend         string
	ConfigTTL       time.Duration
	CleanupInterval time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Verbose bool
	Level   string
	Format  string
}

// RateLimitConfig holds rate limiter settings
type RateLimitConfig struct {
	Enabled  bool
	Backend  string
	Requests int
	Window   time.Duration
}

// Limiter returns the limiter settings
func (c RateLimitConfig) Limiter() ratelimit.Config {
	return ratelimit.Config{Requests: c.Requests, Window: c.Window}
}

// RedisConfig holds the shared redis connection used by the redis backends
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds token settings for the link management API
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	limits := ratelimit.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			BaseURL:         "http://localhost:8080",
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "linkbio.db",
		},
		Cache: CacheConfig{
			Backend:         BackendMemory,
			ConfigTTL:       5 * time.Minute,
			CleanupInterval: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Shortener: shortener.DefaultConfig(),
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Backend:  BackendMemory,
			Requests: limits.Requests,
			Window:   limits.Window,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
	}
}

// New validates cfg and returns a copy of it
func New(cfg Config) (*Config, error) {
	c := cfg
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// UsesRedis reports whether any backend needs the redis connection
func (c *Config) UsesRedis() bool {
	return c.Cache.Backend == BackendRedis || (c.RateLimit.Enabled && c.RateLimit.Backend == BackendRedis)
}

// validate validates the configuration values
func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Server.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if u, err := url.Parse(c.Server.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL must be absolute, got: %q", c.Server.BaseURL)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got: %v", c.Server.ShutdownTimeout)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if err := validBackend("cache", c.Cache.Backend); err != nil {
		return err
	}
	if c.Cache.ConfigTTL < 0 {
		return fmt.Errorf("cache config TTL cannot be negative, got: %v", c.Cache.ConfigTTL)
	}
	if c.Cache.Backend == BackendMemory && c.Cache.CleanupInterval <= 0 {
		return fmt.Errorf("cache cleanup interval must be positive, got: %v", c.Cache.CleanupInterval)
	}

	if err := c.Shortener.Validate(); err != nil {
		return fmt.Errorf("shortener: %w", err)
	}

	if c.RateLimit.Enabled {
		if err := validBackend("rate limit", c.RateLimit.Backend); err != nil {
			return err
		}
		if err := c.RateLimit.Limiter().Validate(); err != nil {
			return err
		}
	}

	if c.UsesRedis() && c.Redis.Addr == "" {
		return fmt.Errorf("redis address cannot be empty when a redis backend is selected")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got: %v", c.Auth.TokenTTL)
	}

	return nil
}

func validBackend(name, backend string) error {
	switch backend {
	case BackendMemory, BackendRedis:
		return nil
	}
	return fmt.Errorf("%s backend must be %q or %q, got: %q", name, BackendMemory, BackendRedis, backend)
}
