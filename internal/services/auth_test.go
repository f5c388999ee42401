package services

import (
	"testing"
	"time"

	"vasplink/internal/logger"
	"vasplink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(secret string, ttl time.Duration) *AuthService {
	return NewAuthService(nil, logger.NewNop(), secret, ttl)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	auth := newTestAuthService("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Role: models.RoleAdmin}

	token, err := auth.issueToken(user)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthService_RejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthService("secret-a", time.Hour)
	verifier := newTestAuthService("secret-b", time.Hour)

	token, err := issuer.issueToken(&models.User{ID: "user-1", Role: models.RoleAgent})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsExpiredToken(t *testing.T) {
	auth := newTestAuthService("test-secret", -time.Minute)

	token, err := auth.issueToken(&models.User{ID: "user-1", Role: models.RoleAgent})
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsGarbage(t *testing.T) {
	auth := newTestAuthService("test-secret", time.Hour)
	_, err := auth.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
