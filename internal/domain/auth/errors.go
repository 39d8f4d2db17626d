package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrGoogleLoginDisabled = errors.New("google login is not configured")
	ErrInvalidOAuthState   = errors.New("invalid oauth state")
	ErrPasswordLoginNotSet = errors.New("this account signs in with google")
)
