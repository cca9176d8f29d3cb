package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisWondeFro/vivintpy/internal/config"
)

func testManager(t *testing.T) *JWTManager {
	t.Helper()
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	return NewJWTManager(&config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Username:        "admin",
		PasswordHash:    hash,
	})
}

func TestAuthenticateRoundTrip(t *testing.T) {
	m := testManager(t)

	access, refresh, err := m.Authenticate("admin", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Subject)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	m := testManager(t)

	_, _, err := m.Authenticate("admin", "wrong")
	assert.Error(t, err)

	_, _, err = m.Authenticate("someone-else", "hunter2")
	assert.Error(t, err)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	m := testManager(t)

	access, _, err := m.GenerateTokenPair("admin")
	require.NoError(t, err)

	_, err = m.ValidateToken(access + "x")
	assert.Error(t, err)

	// Token signed with another secret.
	other := NewJWTManager(&config.JWTConfig{
		Secret:         "other-secret",
		AccessTokenTTL: time.Minute,
		Username:       "admin",
	})
	foreign, _, err := other.GenerateTokenPair("admin")
	require.NoError(t, err)

	_, err = m.ValidateToken(foreign)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager(&config.JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: -time.Minute,
		Username:       "admin",
	})

	access, _, err := m.GenerateTokenPair("admin")
	require.NoError(t, err)

	_, err = m.ValidateToken(access)
	assert.Error(t, err)
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	m := testManager(t)

	_, refresh, err := m.GenerateTokenPair("admin")
	require.NoError(t, err)

	access, newRefresh, err := m.RefreshToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, newRefresh)

	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestRefreshTokenRejectsUnknownSubject(t *testing.T) {
	m := testManager(t)

	_, refresh, err := m.GenerateTokenPair("intruder")
	require.NoError(t, err)

	_, _, err = m.RefreshToken(refresh)
	assert.Error(t, err)
}
