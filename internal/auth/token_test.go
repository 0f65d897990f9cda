package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/bookclub/internal/config"
)

func testManager() *TokenManager {
	return NewTokenManager(config.AuthConfig{
		Secret:   "0123456789abcdef0123",
		TokenTTL: time.Minute,
		Issuer:   "bookclub",
	})
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := testManager()

	token, err := m.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Minute), token.ExpiresAt, 2*time.Second)

	claims, err := m.Parse(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenManager_Expired(t *testing.T) {
	m := testManager()
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.Issue(1)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_Invalid(t *testing.T) {
	m := testManager()

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("foreign secret", func(t *testing.T) {
		other := NewTokenManager(config.AuthConfig{Secret: "another-secret-value!", TokenTTL: time.Minute, Issuer: "bookclub"})
		token, err := other.Issue(1)
		require.NoError(t, err)

		_, err = m.Parse(token.AccessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		other := NewTokenManager(config.AuthConfig{Secret: "0123456789abcdef0123", TokenTTL: time.Minute, Issuer: "elsewhere"})
		token, err := other.Issue(1)
		require.NoError(t, err)

		_, err = m.Parse(token.AccessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
