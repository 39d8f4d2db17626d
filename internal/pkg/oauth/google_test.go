package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestService(url string) *googleServiceImpl {
	svc := NewGoogleService("client", "secret", "http://localhost/cb", []string{"email"}).(*googleServiceImpl)
	svc.userInfoURL = url
	return svc
}

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"g-1","email":"b@x.com","verified_email":true,"name":"Bee"}`))
	}))
	defer srv.Close()

	info, err := newTestService(srv.URL).UserInfo(context.Background(), &oauth2.Token{AccessToken: "tok", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.GoogleID)
	assert.Equal(t, "Bee", info.Name)
}

func TestUserInfo_UnverifiedEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"g-1","email":"b@x.com","verified_email":false}`))
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).UserInfo(context.Background(), &oauth2.Token{AccessToken: "tok"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestGenerateState_Unique(t *testing.T) {
	svc := newTestService("")
	a, err := svc.GenerateState()
	require.NoError(t, err)
	b, err := svc.GenerateState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Contains(t, svc.RedirectURL(a), "state="+a)
}
