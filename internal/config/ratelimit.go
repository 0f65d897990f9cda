package config

import "fmt"

// RateLimitConfig holds per-client request rate limits.
type RateLimitConfig struct {
	// Enabled toggles the rate limiting middleware.
	Enabled bool
	// RequestsPerSecond is the sustained token refill rate.
	RequestsPerSecond float64
	// Burst is the bucket size.
	Burst int
}

// LoadRateLimitConfigFromEnv loads rate limit configuration from environment variables.
func LoadRateLimitConfigFromEnv() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           GetEnvBool("RATE_LIMIT_ENABLED", true),
		RequestsPerSecond: GetEnvFloat("RATE_LIMIT_RPS", 10),
		Burst:             GetEnvInt("RATE_LIMIT_BURST", 20),
	}
}

// Validate validates rate limit configuration.
func (c RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("RequestsPerSecond must be greater than 0")
	}
	if c.Burst <= 0 {
		return fmt.Errorf("Burst must be greater than 0")
	}
	return nil
}
