package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Default()
	cfg.Auth.JWTSecret = "test-secret"
	return cfg
}

func TestConfig_New_Valid(t *testing.T) {
	cfg, err := New(validConfig())

	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, "linkbio.db", cfg.Database.Path)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ConfigTTL)
	assert.Equal(t, 6, cfg.Shortener.Length)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.UsesRedis())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }, "server port cannot be empty"},
		{"empty base URL", func(c *Config) { c.Server.BaseURL = "" }, "base URL cannot be empty"},
		{"relative base URL", func(c *Config) { c.Server.BaseURL = "localhost:8080" }, "base URL must be absolute"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "shutdown timeout must be positive"},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, "database path cannot be empty"},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache backend must be"},
		{"negative cache TTL", func(c *Config) { c.Cache.ConfigTTL = -time.Second }, "cache config TTL cannot be negative"},
		{"zero cleanup interval", func(c *Config) { c.Cache.CleanupInterval = 0 }, "cache cleanup interval must be positive"},
		{"short code too short", func(c *Config) { c.Shortener.Length = 2 }, "shortener"},
		{"unknown rate limit backend", func(c *Config) { c.RateLimit.Backend = "etcd" }, "rate limit backend must be"},
		{"zero rate limit requests", func(c *Config) { c.RateLimit.Requests = 0 }, "requests must be greater than 0"},
		{"redis backend without address", func(c *Config) {
			c.Cache.Backend = BackendRedis
			c.Redis.Addr = ""
		}, "redis address cannot be empty"},
		{"empty jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt secret cannot be empty"},
		{"zero token TTL", func(c *Config) { c.Auth.TokenTTL = 0 }, "token TTL must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			_, err := New(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_DisabledRateLimitSkipsChecks(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.Backend = "unused"
	cfg.RateLimit.Requests = 0

	_, err := New(cfg)
	assert.NoError(t, err)
}

func TestConfig_Validate_RedisCacheSkipsCleanupInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Backend = BackendRedis
	cfg.Cache.CleanupInterval = 0

	c, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, c.UsesRedis())
}

func TestConfig_UsesRedis(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.UsesRedis())

	cfg.RateLimit.Backend = BackendRedis
	assert.True(t, cfg.UsesRedis())

	cfg.RateLimit.Enabled = false
	assert.False(t, cfg.UsesRedis())
}

func TestConfig_New_ReturnsCopy(t *testing.T) {
	in := validConfig()
	out, err := New(in)
	require.NoError(t, err)

	out.Server.Port = "9999"
	assert.Equal(t, "8080", in.Server.Port)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("LINKBIO_PORT", "9090")
	t.Setenv("LINKBIO_SHORTENER_LENGTH", "8")
	t.Setenv("LINKBIO_BAD_INT", "eight")
	t.Setenv("LINKBIO_RATE_LIMIT_ENABLED", "false")
	t.Setenv("LINKBIO_CACHE_TTL", "90s")
	t.Setenv("LINKBIO_BAD_DURATION", "soon")

	assert.Equal(t, "9090", EnvString("PORT", "8080"))
	assert.Equal(t, "fallback", EnvString("UNSET_VALUE", "fallback"))

	assert.Equal(t, 8, EnvInt("SHORTENER_LENGTH", 6))
	assert.Equal(t, 6, EnvInt("BAD_INT", 6))
	assert.Equal(t, 6, EnvInt("UNSET_VALUE", 6))

	assert.False(t, EnvBool("RATE_LIMIT_ENABLED", true))
	assert.True(t, EnvBool("UNSET_VALUE", true))

	assert.Equal(t, 90*time.Second, EnvDuration("CACHE_TTL", time.Minute))
	assert.Equal(t, time.Minute, EnvDuration("BAD_DURATION", time.Minute))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LINKBIO_DOTENV_ONLY=from-file\nLINKBIO_DOTENV_SET=from-file\n"), 0o600))

	t.Setenv("LINKBIO_DOTENV_SET", "from-env")
	t.Cleanup(func() { os.Unsetenv("LINKBIO_DOTENV_ONLY") })

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-file", EnvString("DOTENV_ONLY", ""))
	// existing variables win
	assert.Equal(t, "from-env", EnvString("DOTENV_SET", ""))
}

func TestLoadDotEnv_MissingFileIsSkipped(t *testing.T) {
	err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
