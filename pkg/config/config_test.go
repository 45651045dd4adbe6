package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SESSION_TOKEN",
		"SEARCHBRIDGE_HOST",
		"SEARCHBRIDGE_AUTH_URL",
		"SEARCHBRIDGE_HEADLESS",
		"SEARCHBRIDGE_MAX_ATTEMPTS",
		"SEARCHBRIDGE_BLOCKED_DOMAINS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "kagi.com", cfg.SearchHost)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30000.0, cfg.NavigationTimeout)
	assert.Equal(t, 30, cfg.ShutdownTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TOKEN", "abc123")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.SessionToken)
	assert.Equal(t, "kagi.com", cfg.SearchHost)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
search_host: search.example.com
session_token: file-token
headless: false
max_attempts: 5
blocked_domains:
  - "*.spam.example"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "search.example.com", cfg.SearchHost)
	assert.Equal(t, "file-token", cfg.SessionToken)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, []string{"*.spam.example"}, cfg.BlockedDomains)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search_host: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session_token: file-token\n"), 0600))

	t.Setenv("SESSION_TOKEN", "env-token")
	t.Setenv("SEARCHBRIDGE_HOST", "env.example.com")
	t.Setenv("SEARCHBRIDGE_MAX_ATTEMPTS", "7")
	t.Setenv("SEARCHBRIDGE_BLOCKED_DOMAINS", "*.a.example, *.b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.SessionToken)
	assert.Equal(t, "env.example.com", cfg.SearchHost)
	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, []string{"*.a.example", "*.b.example"}, cfg.BlockedDomains)
}

func TestResolveAuthURL(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		want      string
		expectErr bool
	}{
		{
			name: "explicit auth url wins",
			cfg:  Config{AuthURL: "https://kagi.com/search?token=direct", SessionToken: "ignored", SearchHost: "kagi.com"},
			want: "https://kagi.com/search?token=direct",
		},
		{
			name: "built from token",
			cfg:  Config{SessionToken: "tok", SearchHost: "kagi.com"},
			want: "https://kagi.com/search?token=tok",
		},
		{
			name:      "missing token",
			cfg:       Config{SearchHost: "kagi.com"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ResolveAuthURL()
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.MaxAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.SearchHost = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.NavigationTimeout = 0
	assert.Error(t, cfg.Validate())
}
