package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		for _, key := range []string{"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PORT", "DB_SSLMODE", "DB_TIMEZONE", "DB_LOG_QUERIES"} {
			t.Setenv(key, "")
		}

		cfg := LoadConfigFromEnv()
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, "postgres", cfg.User)
		assert.Equal(t, "postgres", cfg.Password)
		assert.Equal(t, "bookclub", cfg.DBName)
		assert.Equal(t, "5432", cfg.Port)
		assert.Equal(t, "disable", cfg.SSLMode)
		assert.Equal(t, "UTC", cfg.TimeZone)
		assert.False(t, cfg.LogQueries)
	})

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_USER", "club")
		t.Setenv("DB_PASSWORD", "s3cret")
		t.Setenv("DB_NAME", "clubs")
		t.Setenv("DB_PORT", "6543")
		t.Setenv("DB_SSLMODE", "require")
		t.Setenv("DB_TIMEZONE", "Asia/Seoul")
		t.Setenv("DB_LOG_QUERIES", "true")

		cfg := LoadConfigFromEnv()
		assert.Equal(t, Config{
			Host:       "db.internal",
			User:       "club",
			Password:   "s3cret",
			DBName:     "clubs",
			Port:       "6543",
			SSLMode:    "require",
			TimeZone:   "Asia/Seoul",
			LogQueries: true,
		}, cfg)
	})
}

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(Config{
		Host:     "localhost",
		User:     "postgres",
		Password: "pw",
		DBName:   "bookclub",
		Port:     "5432",
		SSLMode:  "disable",
		TimeZone: "UTC",
	})
	assert.Equal(t, "host=localhost user=postgres password=pw dbname=bookclub port=5432 sslmode=disable TimeZone=UTC", dsn)
}

func TestSanitizeError(t *testing.T) {
	t.Run("password in error message", func(t *testing.T) {
		cfg := Config{Host: "localhost", User: "test", Password: "secret123", DBName: "test"}
		err := SanitizeError(fmt.Errorf("connection failed: host=localhost user=test password=secret123 dbname=test"), cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to database")
		assert.Contains(t, err.Error(), "password=***")
		assert.NotContains(t, err.Error(), "secret123")
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, SanitizeError(nil, Config{Password: "secret"}))
	})

	t.Run("empty password leaves message intact", func(t *testing.T) {
		err := SanitizeError(fmt.Errorf("dial tcp: connection refused"), Config{})
		assert.EqualError(t, err, "failed to connect to database: dial tcp: connection refused")
	})
}

func TestLoadRetryConfigFromEnv(t *testing.T) {
	t.Setenv("DB_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("DB_RETRY_INITIAL_DELAY", "250ms")
	t.Setenv("DB_RETRY_MAX_DELAY", "3s")
	t.Setenv("DB_RETRY_MULTIPLIER", "1.5")

	cfg := LoadRetryConfigFromEnv()
	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.InitialDelay)
	assert.Equal(t, 3*time.Second, cfg.MaxDelay)
	assert.Equal(t, 1.5, cfg.Multiplier)
	assert.NotEmpty(t, cfg.RetryableErrors)
}
