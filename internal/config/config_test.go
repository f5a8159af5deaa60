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
	for _, name := range []string{
		"DATABASE_URL", "GEMINI_API_KEY", "GITHUB_TOKEN", "JWT_SECRET", "JWT_EXPIRATION_HOURS",
		"GITFOLIO_PORT", "GITFOLIO_DATABASE_URL", "GITFOLIO_USE_BROWSER", "GITFOLIO_CORS_ORIGINS",
		"GITFOLIO_MAX_UPLOAD_BYTES", "GITFOLIO_GEMINI_API_KEY",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "https://api.github.com", cfg.GitHubAPIURL)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.False(t, cfg.UseBrowser)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITFOLIO_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/gitfolio")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("GITFOLIO_USE_BROWSER", "true")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/gitfolio", cfg.DatabaseURL)
	assert.Equal(t, "gem-key", cfg.GeminiAPIKey)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_PrefixedOverridesBare(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://bare")
	t.Setenv("GITFOLIO_DATABASE_URL", "postgres://prefixed")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "postgres://prefixed", cfg.DatabaseURL)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gitfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 7000
github_api_url: http://github.local
cors_origins:
  - https://app.example.com
max_upload_bytes: 1024
`), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "http://github.local", cfg.GitHubAPIURL)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok", Config{Port: 80, MaxUploadBytes: 1, GitHubAPIURL: "x"}, ""},
		{"port zero", Config{Port: 0, MaxUploadBytes: 1, GitHubAPIURL: "x"}, "port"},
		{"port too big", Config{Port: 70000, MaxUploadBytes: 1, GitHubAPIURL: "x"}, "port"},
		{"upload size", Config{Port: 80, MaxUploadBytes: 0, GitHubAPIURL: "x"}, "max_upload_bytes"},
		{"github url", Config{Port: 80, MaxUploadBytes: 1}, "github_api_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequire(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.RequireDatabase())
	assert.Error(t, cfg.RequireGemini())

	cfg.DatabaseURL = "postgres://x"
	cfg.GeminiAPIKey = "k"
	assert.NoError(t, cfg.RequireDatabase())
	assert.NoError(t, cfg.RequireGemini())
}
