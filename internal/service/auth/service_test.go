package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/auth"
	"github.com/thikabizhub/bizhub-backend/internal/domain/referral"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/jwt"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/oauth"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

const testSecret = "test-secret-key-for-jwt"

type noopTx struct{}

func (noopTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUsers struct {
	user.UserRepository
	byID map[string]user.User
	seq  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]user.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) CountAll(context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeUsers) LinkGoogleAccount(_ context.Context, id, googleID string) (user.User, error) {
	u := f.byID[id]
	provider := providerGoogle
	u.OAuthProvider = &provider
	u.OAuthProviderID = &googleID
	f.byID[id] = u
	return u, nil
}

type fakeTokens struct {
	auth.RefreshTokenRepository
	active map[string]string
}

func (f *fakeTokens) Create(_ context.Context, userID, token string, _ time.Time, _ auth.SessionInfo) error {
	f.active[token] = userID
	return nil
}

func (f *fakeTokens) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := f.active[token]
	return !ok, nil
}

func (f *fakeTokens) Revoke(_ context.Context, token string) error {
	delete(f.active, token)
	return nil
}

type recordingReferrals struct {
	users   *fakeUsers
	applied []string
	err     error
}

func (r *recordingReferrals) Apply(_ context.Context, referred referral.Referred, referralCode string) (referral.ReferralResponse, error) {
	if r.err != nil {
		return referral.ReferralResponse{}, r.err
	}
	r.applied = append(r.applied, referralCode)
	u := r.users.byID[referred.UserID]
	referrer := "referrer-1"
	u.ReferredBy = &referrer
	r.users.byID[u.ID] = u
	return referral.ReferralResponse{ReferralCode: referralCode}, nil
}

type fakeGoogle struct {
	profile oauth.GoogleUser
}

func (fakeGoogle) GenerateState() (string, error) { return "state-1", nil }

func (fakeGoogle) RedirectURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (fakeGoogle) Exchange(context.Context, string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "google-token"}, nil
}

func (g fakeGoogle) UserInfo(context.Context, *oauth2.Token) (oauth.GoogleUser, error) {
	return g.profile, nil
}

type fixture struct {
	svc       *AuthServiceImpl
	users     *fakeUsers
	tokens    *fakeTokens
	referrals *recordingReferrals
}

func newFixture(google oauth.GoogleService) fixture {
	users := newFakeUsers()
	tokens := &fakeTokens{active: map[string]string{}}
	referrals := &recordingReferrals{users: users}
	jwtService := jwt.NewJWTService(testSecret, time.Hour, 24*time.Hour)
	return fixture{
		svc:       NewAuthService(noopTx{}, users, tokens, jwtService, google, referrals),
		users:     users,
		tokens:    tokens,
		referrals: referrals,
	}
}

func registerRequest(email string) auth.RegisterRequest {
	return auth.RegisterRequest{
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
		DisplayName:     "Wanjiru",
	}
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	first, err := f.svc.Register(ctx, registerRequest("first@example.com"), auth.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, first.User.Role)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.RefreshToken)
	assert.Contains(t, f.tokens.active, first.RefreshToken)

	second, err := f.svc.Register(ctx, registerRequest("second@example.com"), auth.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, second.User.Role)

	stored := f.users.byID[second.User.ID]
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("password123")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerRequest("dup@example.com"), auth.SessionInfo{})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerRequest("dup@example.com"), auth.SessionInfo{})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestRegister_AppliesReferralCode(t *testing.T) {
	f := newFixture(nil)
	req := registerRequest("referred@example.com")
	req.ReferralCode = "ABCD1234"

	resp, err := f.svc.Register(context.Background(), req, auth.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ABCD1234"}, f.referrals.applied)
	require.NotNil(t, resp.User.ReferredBy)
	assert.Equal(t, "referrer-1", *resp.User.ReferredBy)
}

func TestRegister_ReferralFailureDoesNotBlock(t *testing.T) {
	f := newFixture(nil)
	f.referrals.err = referral.ErrInvalidCode
	req := registerRequest("referred@example.com")
	req.ReferralCode = "ZZZZ9999"

	resp, err := f.svc.Register(context.Background(), req, auth.SessionInfo{})
	require.NoError(t, err)
	assert.Nil(t, resp.User.ReferredBy)
}

func TestLogin(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerRequest("login@example.com"), auth.SessionInfo{})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "login@example.com", password: "password123"},
		{name: "wrong password", email: "login@example.com", password: "wrong-pass", wantErr: auth.ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@example.com", password: "password123", wantErr: auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.Login(ctx, auth.LoginRequest{Email: tt.email, Password: tt.password}, auth.SessionInfo{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, resp.User.Email)
		})
	}
}

func TestLogin_GoogleOnlyAccount(t *testing.T) {
	f := newFixture(nil)
	_, err := f.users.Create(context.Background(), user.User{Email: "g@example.com", Role: user.RoleUser})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{Email: "g@example.com", Password: "password123"}, auth.SessionInfo{})
	assert.ErrorIs(t, err, auth.ErrPasswordLoginNotSet)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	resp, err := f.svc.Register(ctx, registerRequest("refresh@example.com"), auth.SessionInfo{})
	require.NoError(t, err)

	access, err := f.svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access.AccessToken)

	require.NoError(t, f.svc.Logout(ctx, resp.RefreshToken))

	_, err = f.svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	f := newFixture(nil)
	resp, err := f.svc.Register(context.Background(), registerRequest("type@example.com"), auth.SessionInfo{})
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestGoogle_Disabled(t *testing.T) {
	f := newFixture(nil)

	_, err := f.svc.GoogleRedirect(context.Background())
	assert.ErrorIs(t, err, auth.ErrGoogleLoginDisabled)

	_, err = f.svc.GoogleCallback(context.Background(), "code", auth.SessionInfo{})
	assert.ErrorIs(t, err, auth.ErrGoogleLoginDisabled)
}

func TestGoogleCallback_CreatesUser(t *testing.T) {
	google := fakeGoogle{profile: oauth.GoogleUser{GoogleID: "g-1", Email: "new@example.com", VerifiedEmail: true, Name: "Kamau"}}
	f := newFixture(google)

	redirect, err := f.svc.GoogleRedirect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "state-1", redirect.State)
	assert.Contains(t, redirect.URL, "state=state-1")

	resp, err := f.svc.GoogleCallback(context.Background(), "code", auth.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, "Kamau", resp.User.DisplayName)
	assert.Equal(t, user.RoleAdmin, resp.User.Role)

	stored := f.users.byID[resp.User.ID]
	assert.Nil(t, stored.PasswordHash)
	require.NotNil(t, stored.OAuthProviderID)
	assert.Equal(t, "g-1", *stored.OAuthProviderID)
}

func TestGoogleCallback_LinksExistingAccount(t *testing.T) {
	google := fakeGoogle{profile: oauth.GoogleUser{GoogleID: "g-2", Email: "linked@example.com", VerifiedEmail: true}}
	f := newFixture(google)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, registerRequest("linked@example.com"), auth.SessionInfo{})
	require.NoError(t, err)

	resp, err := f.svc.GoogleCallback(ctx, "code", auth.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.Len(t, f.users.byID, 1)

	stored := f.users.byID[resp.User.ID]
	require.NotNil(t, stored.OAuthProviderID)
	assert.Equal(t, "g-2", *stored.OAuthProviderID)
	assert.NotNil(t, stored.PasswordHash)
}

type unverifiedGoogle struct{ fakeGoogle }

func (unverifiedGoogle) UserInfo(context.Context, *oauth2.Token) (oauth.GoogleUser, error) {
	return oauth.GoogleUser{}, oauth.ErrEmailNotVerified
}

func TestGoogleCallback_UnverifiedEmail(t *testing.T) {
	f := newFixture(unverifiedGoogle{})

	_, err := f.svc.GoogleCallback(context.Background(), "code", auth.SessionInfo{})
	assert.True(t, errors.Is(err, oauth.ErrEmailNotVerified))
}
