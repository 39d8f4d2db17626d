package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/auth"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/jwt"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeAuthService struct {
	auth.AuthService

	registered   []auth.RegisterRequest
	session      auth.SessionInfo
	loggedOut    []string
	callbackCode string
}

func (f *fakeAuthService) tokens(email string) auth.TokenResponse {
	return auth.TokenResponse{
		AccessToken:      "access-" + email,
		ExpiresAt:        time.Now().Add(time.Hour).Unix(),
		RefreshToken:     "refresh-" + email,
		RefreshExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		User:             user.ProfileResponse{ID: "u1", Email: email, Role: user.RoleUser},
	}
}

func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionInfo) (auth.TokenResponse, error) {
	f.registered = append(f.registered, req)
	f.session = session
	return f.tokens(req.Email), nil
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionInfo) (auth.TokenResponse, error) {
	if req.Password != "correct-horse" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	return f.tokens(req.Email), nil
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (auth.AccessTokenResponse, error) {
	if refreshToken != "refresh-ok" {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	return auth.AccessTokenResponse{AccessToken: "new-access", ExpiresAt: 1}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *fakeAuthService) GoogleRedirect(ctx context.Context) (auth.GoogleRedirect, error) {
	return auth.GoogleRedirect{URL: "https://accounts.example.com/o/oauth2?state=s1", State: "s1"}, nil
}

func (f *fakeAuthService) GoogleCallback(ctx context.Context, code string, session auth.SessionInfo) (auth.TokenResponse, error) {
	f.callbackCode = code
	return f.tokens("g@example.com"), nil
}

func newTestAuthHandler() (AuthHandler, *fakeAuthService) {
	svc := &fakeAuthService{}
	j := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour)
	return NewAuthHandler(j, svc, "http://frontend.test", false), svc
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	h, svc := newTestAuthHandler()

	payload := `{"email":" New@Example.com ","password":"supersecret","confirm_password":"supersecret","display_name":"Wanjiku"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(payload))
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "192.0.2.10:4000"
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.registered, 1)
	assert.Equal(t, "new@example.com", svc.registered[0].Email)
	assert.Equal(t, auth.SessionInfo{UserAgent: "test-agent", IPAddress: "192.0.2.10"}, svc.session)

	cookie := findCookie(rec, refreshCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh-new@example.com", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "access-new@example.com", data["access_token"])
	assert.NotContains(t, data, "refresh_token")
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h, svc := newTestAuthHandler()

	tests := []struct {
		name    string
		payload string
		code    string
	}{
		{"malformed json", `{"email":`, "BAD_REQUEST"},
		{"short password", `{"email":"a@example.com","password":"short","confirm_password":"short"}`, "VALIDATION_ERROR"},
		{"mismatch", `{"email":"a@example.com","password":"longenough","confirm_password":"different1"}`, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(tt.payload))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
	assert.Empty(t, svc.registered)
}

func TestAuthHandler_Login(t *testing.T) {
	h, _ := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeBody(t, rec)["code"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"correct-horse"}`))
	rec = httptest.NewRecorder()
	h.Login(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, findCookie(rec, refreshCookieName))
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	h, _ := newTestAuthHandler()

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-ok"})
		rec := httptest.NewRecorder()
		h.RefreshToken(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("body fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh",
			bytes.NewBufferString(`{"refresh_token":"refresh-ok"}`))
		rec := httptest.NewRecorder()
		h.RefreshToken(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("revoked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-old"})
		rec := httptest.NewRecorder()
		h.RefreshToken(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		rec := httptest.NewRecorder()
		h.RefreshToken(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h, svc := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-ok"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"refresh-ok"}, svc.loggedOut)
	cookie := findCookie(rec, refreshCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestAuthHandler_GoogleFlow(t *testing.T) {
	h, svc := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google", nil)
	rec := httptest.NewRecorder()
	h.LoginWithGoogle(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	state := findCookie(rec, stateCookieName)
	require.NotNil(t, state)
	assert.Equal(t, "s1", state.Value)

	t.Run("state mismatch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=other&code=c1", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "s1"})
		rec := httptest.NewRecorder()
		h.OAuthCallbackGoogle(rec, req)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "state_mismatch", loc.Query().Get("error"))
		assert.Empty(t, svc.callbackCode)
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=s1&code=c1", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "s1"})
		rec := httptest.NewRecorder()
		h.OAuthCallbackGoogle(rec, req)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/auth/callback/google", loc.Path)
		assert.Equal(t, "access-g@example.com", loc.Query().Get("access_token"))
		assert.Equal(t, "c1", svc.callbackCode)
		assert.NotNil(t, findCookie(rec, refreshCookieName))
	})
}
