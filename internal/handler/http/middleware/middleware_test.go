package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/jwt"
)

func protectedRouter(j *jwt.JWTService) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(j.JWTAuth()))
	r.With(AuthRequired).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		id, _ := CurrentUser(r.Context())
		_, _ = w.Write([]byte(id.UserID))
	})
	r.With(AuthRequired, AdminOnly).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func get(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	j := jwt.NewJWTService("middleware-secret", time.Hour, 24*time.Hour)
	h := protectedRouter(j)

	access, _, err := j.GenerateAccessToken(jwt.Claims{UserID: "u1", Email: "a@example.com", Role: user.RoleUser})
	require.NoError(t, err)
	refresh, _, err := j.GenerateRefreshToken("u1")
	require.NoError(t, err)

	rec := get(t, h, "/me", access)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	rec = get(t, h, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(t, h, "/me", refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.NotEmpty(t, body["error"])
}

func TestAdminOnly(t *testing.T) {
	j := jwt.NewJWTService("middleware-secret", time.Hour, 24*time.Hour)
	h := protectedRouter(j)

	userToken, _, err := j.GenerateAccessToken(jwt.Claims{UserID: "u1", Role: user.RoleUser})
	require.NoError(t, err)
	adminToken, _, err := j.GenerateAccessToken(jwt.Claims{UserID: "a1", Role: user.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(t, h, "/admin", userToken).Code)
	assert.Equal(t, http.StatusNoContent, get(t, h, "/admin", adminToken).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)

	now = now.Add(limiterIdleTTL + time.Second)
	assert.Equal(t, 2, rl.Cleanup())
}
