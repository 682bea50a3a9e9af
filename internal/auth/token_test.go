package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/lastmile-backend-go/internal/config"
)

func testConfig() config.AuthConfig {
	cfg := config.Default().Auth
	cfg.JWTSecret = "test-secret"
	return cfg
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer(testConfig())

	token, err := issuer.Issue("ops")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, "lastmile-backend", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
}

func TestVerifyRejects(t *testing.T) {
	issuer := NewIssuer(testConfig())
	token, err := issuer.Issue("ops")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.JWTSecret = "other"
		_, err := NewIssuer(cfg).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := testConfig()
		cfg.Issuer = "someone-else"
		_, err := NewIssuer(cfg).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewIssuer(testConfig())
		later.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestDisabled(t *testing.T) {
	issuer := NewIssuer(config.Default().Auth)
	assert.False(t, issuer.Enabled())

	_, err := issuer.Issue("ops")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = issuer.Verify("x")
	assert.ErrorIs(t, err, ErrDisabled)
}
