package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
)

func newTestService() *JWTService {
	return NewJWTService("test-secret", time.Hour, 24*time.Hour)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService()

	tokenString, expiresAt, err := svc.GenerateAccessToken(Claims{
		UserID: "user-1",
		Email:  "a@x.com",
		Role:   user.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims := token.PrivateClaims()
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "a@x.com", claims["email"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, TypeAccess, claims["type"])
}

func TestParseRefreshToken(t *testing.T) {
	svc := newTestService()

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestGenerateRefreshToken_FreshTokensParse(t *testing.T) {
	svc := newTestService()

	first, expiresAt, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	second, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Greater(t, expiresAt, time.Now().Add(23*time.Hour).Unix())

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), first)
	require.NoError(t, err)
	assert.False(t, token.IssuedAt().After(time.Now().Add(time.Second)))

	for _, refresh := range []string{first, second} {
		userID, err := svc.ParseRefreshToken(refresh)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	}
}

func TestParseRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := newTestService()

	access, _, err := svc.GenerateAccessToken(Claims{UserID: "user-1", Role: user.RoleUser})
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateSSEToken("user-9")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
}

func TestValidateSSEToken_WrongSecret(t *testing.T) {
	token, _, err := newTestService().GenerateSSEToken("user-9")
	require.NoError(t, err)

	other := NewJWTService("other-secret", time.Hour, time.Hour)
	_, err = other.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_Expired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateSSEToken("user-9")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}
