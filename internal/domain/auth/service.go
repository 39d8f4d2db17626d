package auth

import (
	"context"
	"time"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, session SessionInfo) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionInfo) (TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GoogleRedirect(ctx context.Context) (GoogleRedirect, error)
	GoogleCallback(ctx context.Context, code string, session SessionInfo) (TokenResponse, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time, session SessionInfo) error
	// IsRevoked reports true for unknown, revoked or expired tokens.
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}
