package config

import (
	"fmt"
	"time"
)

const minSecretLength = 16

// AuthConfig holds access token configuration.
type AuthConfig struct {
	// Secret is the HMAC key used to sign access tokens.
	Secret string
	// TokenTTL is the lifetime of an issued access token.
	TokenTTL time.Duration
	// Issuer is written into the iss claim.
	Issuer string
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		Secret:   GetEnv("AUTH_JWT_SECRET", ""),
		TokenTTL: GetEnvDuration("AUTH_TOKEN_TTL", 30*time.Minute),
		Issuer:   GetEnv("AUTH_ISSUER", "bookclub"),
	}
}

// Validate validates auth configuration.
func (c AuthConfig) Validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TokenTTL must be greater than 0")
	}
	return nil
}
