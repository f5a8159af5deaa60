package config

import (
	"fmt"
	"time"
)

// JWTConfig holds the settings for signing and validating access tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the token configuration. JWT_SECRET is required.
func (c *Config) JWT() (*JWTConfig, error) {
	jc := &JWTConfig{
		Secret:          c.JWTSecret,
		ExpirationHours: c.JWTExpirationHours,
	}
	if err := jc.normalize(); err != nil {
		return nil, err
	}
	return jc, nil
}

// Expiration is the lifetime of a freshly issued token.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours == 0 {
		c.ExpirationHours = 24
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
