package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeSSE     = "sse"

	sseTokenTTL = 5 * time.Minute
)

var ErrInvalidTokenType = errors.New("invalid token type")

// Claims is the identity carried by an access token.
type Claims struct {
	UserID string
	Email  string
	Role   user.Role
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	ParseRefreshToken(token string) (userID string, err error)
	GenerateSSEToken(userID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64, secure bool) *http.Cookie
	ClearRefreshTokenCookie(secure bool) *http.Cookie
}

type JWTService struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	tokenAuth  *jwtauth.JWTAuth
	now        func() time.Time
}

func NewJWTService(secretKey string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tokenAuth:  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:        time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(c Claims) (string, int64, error) {
	expiresAt := j.now().Add(j.accessTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]any{
		"user_id": c.UserID,
		"email":   c.Email,
		"role":    string(c.Role),
		"type":    TypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (string, int64, error) {
	now := j.now()
	expiresAt := now.Add(j.refreshTTL).Unix()
	// jti keeps two tokens issued within the same second distinct.
	_, tokenString, err := j.tokenAuth.Encode(map[string]any{
		"user_id": userID,
		"type":    TypeRefresh,
		"exp":     expiresAt,
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
	})
	return tokenString, expiresAt, err
}

// ParseRefreshToken verifies signature, expiry and type of a refresh token.
func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	return j.userIDOf(tokenString, TypeRefresh)
}

// GenerateSSEToken issues a short-lived token for EventSource connections,
// which cannot send an Authorization header.
func (j *JWTService) GenerateSSEToken(userID string) (string, int, error) {
	_, tokenString, err := j.tokenAuth.Encode(map[string]any{
		"user_id": userID,
		"type":    TypeSSE,
		"exp":     j.now().Add(sseTokenTTL).Unix(),
	})
	if err != nil {
		return "", 0, err
	}
	return tokenString, int(sseTokenTTL.Seconds()), nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (string, error) {
	return j.userIDOf(tokenString, TypeSSE)
}

func (j *JWTService) userIDOf(tokenString, wantType string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != wantType {
		return "", ErrInvalidTokenType
	}

	raw, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	userID, ok := raw.(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return userID, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) ClearRefreshTokenCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
