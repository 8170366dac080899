package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshdurbin/linkbio/internal/auth"
	"github.com/joshdurbin/linkbio/internal/config"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("LINKBIO_CACHE_TTL", "90s")

	root := newRootCmd()
	serverCmd, _, err := root.Find([]string{"server"})
	require.NoError(t, err)

	require.NoError(t, serverCmd.ParseFlags([]string{
		"--jwt-secret", "s3cret",
		"--port", "9090",
		"--ratelimit-backend", "memory",
		"--code-length", "8",
	}))

	cfg, err := loadConfig(serverCmd)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 8, cfg.Shortener.Length)
	assert.Equal(t, 90*time.Second, cfg.Cache.ConfigTTL)
	assert.Equal(t, config.BackendMemory, cfg.Cache.Backend)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("LINKBIO_JWT_SECRET", "")

	root := newRootCmd()
	serverCmd, _, err := root.Find([]string{"server"})
	require.NoError(t, err)
	require.NoError(t, serverCmd.ParseFlags(nil))

	_, err = loadConfig(serverCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestTokenCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token", "--jwt-secret", "s3cret", "--subject", "owner-9"})

	require.NoError(t, root.Execute())

	tokens, err := auth.NewTokens("s3cret", time.Hour)
	require.NoError(t, err)
	subject, err := tokens.Verify(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "owner-9", subject)
}

func TestPurgeCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"purge",
		"--db-path", filepath.Join(t.TempDir(), "purge.db"),
		"--retention", "1h",
		"--log-format", "json",
	})

	require.NoError(t, root.Execute())
	assert.Equal(t, "Purged 0 inactive links\n", out.String())
}
