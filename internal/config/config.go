// Package config loads gitfolio settings from an optional config file,
// the environment and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every gitfolio environment variable.
const EnvPrefix = "GITFOLIO"

// DefaultMaxUploadBytes caps uploaded resume files.
const DefaultMaxUploadBytes = 10 << 20

// Config is the runtime configuration shared by the server and CLI.
type Config struct {
	Port           int      `mapstructure:"port"`
	DatabaseURL    string   `mapstructure:"database_url"`
	GeminiAPIKey   string   `mapstructure:"gemini_api_key"`
	GitHubToken    string   `mapstructure:"github_token"`
	GitHubAPIURL   string   `mapstructure:"github_api_url"`
	UseBrowser     bool     `mapstructure:"use_browser"`
	Verbose        bool     `mapstructure:"verbose"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
	CORSOrigins    []string `mapstructure:"cors_origins"`

	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

// well-known variables read without the prefix
var bareEnv = map[string]string{
	"database_url":         "DATABASE_URL",
	"gemini_api_key":       "GEMINI_API_KEY",
	"github_token":         "GITHUB_TOKEN",
	"jwt_secret":           "JWT_SECRET",
	"jwt_expiration_hours": "JWT_EXPIRATION_HOURS",
}

// New returns a viper instance with defaults and environment bindings
// applied. Callers may bind CLI flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("github_api_url", "https://api.github.com")
	v.SetDefault("use_browser", false)
	v.SetDefault("verbose", false)
	v.SetDefault("max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("jwt_expiration_hours", 24)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, bare := range bareEnv {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), bare)
	}
	return v
}

// Load reads the config file at path (if any) into v and decodes the result.
// An empty path skips the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Required settings are checked by the
// commands that need them.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config error: max_upload_bytes must be positive")
	}
	if c.GitHubAPIURL == "" {
		return errors.New("config error: github_api_url cannot be empty")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// RequireDatabase reports an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required but not set")
	}
	return nil
}

// RequireGemini reports an error when no Gemini API key is configured.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is required but not set")
	}
	return nil
}
