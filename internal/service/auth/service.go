package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/auth"
	"github.com/thikabizhub/bizhub-backend/internal/domain/referral"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/jwt"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/oauth"
	"golang.org/x/crypto/bcrypt"
)

const providerGoogle = "google"

// ReferralApplier redeems a referral code given at registration.
type ReferralApplier interface {
	Apply(ctx context.Context, referred referral.Referred, referralCode string) (referral.ReferralResponse, error)
}

type AuthServiceImpl struct {
	tx        database.Transactor
	users     user.UserRepository
	tokens    auth.RefreshTokenRepository
	jwt       jwt.Service
	google    oauth.GoogleService
	referrals ReferralApplier
}

// NewAuthService wires the auth flows. google may be nil when Google login is
// not configured.
func NewAuthService(
	tx database.Transactor,
	users user.UserRepository,
	tokens auth.RefreshTokenRepository,
	jwtService jwt.Service,
	google oauth.GoogleService,
	referrals ReferralApplier,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		tx:        tx,
		users:     users,
		tokens:    tokens,
		jwt:       jwtService,
		google:    google,
		referrals: referrals,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens signs an access/refresh pair and stores the refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionInfo) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.ExpiresAt, err = a.jwt.GenerateAccessToken(jwt.Claims{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshExpiresAt, err = a.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.tokens.Create(ctx, u.ID, resp.RefreshToken, time.Unix(resp.RefreshExpiresAt, 0), session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	resp.User = user.NewProfileResponse(u)
	return resp, nil
}

// createUser inserts newUser, making the very first account an admin.
func (a *AuthServiceImpl) createUser(ctx context.Context, newUser user.User) (user.User, error) {
	total, err := a.users.CountAll(ctx)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to count users: %w", err)
	}
	newUser.Role = user.RoleUser
	if total == 0 {
		newUser.Role = user.RoleAdmin
	}

	created, err := a.users.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	if created.IsAdmin() {
		slog.Info("First user registered as admin", "user_id", created.ID)
	}
	return created, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionInfo) (auth.TokenResponse, error) {
	_, err := a.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return auth.TokenResponse{}, user.ErrUserEmailExists
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}

	hashedPassword, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var newUser user.User
	var tokenResponse auth.TokenResponse
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		newUser, err = a.createUser(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: &hashedPassword,
			DisplayName:  req.DisplayName,
		})
		if err != nil {
			return err
		}

		tokenResponse, err = a.issueTokens(txCtx, newUser, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	if req.ReferralCode != "" && a.referrals != nil {
		// Registration succeeds even when the code cannot be redeemed.
		_, err := a.referrals.Apply(ctx, referral.Referred{UserID: newUser.ID, Email: newUser.Email}, req.ReferralCode)
		if err != nil {
			slog.Warn("Referral code at registration not applied", "user_id", newUser.ID, "error", err)
		} else if refreshed, err := a.users.GetByID(ctx, newUser.ID); err == nil {
			tokenResponse.User = user.NewProfileResponse(refreshed)
		}
	}

	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionInfo) (auth.TokenResponse, error) {
	userData, err := a.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrPasswordLoginNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData, session)
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (auth.AccessTokenResponse, error) {
	userID, err := a.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.tokens.IsRevoked(ctx, refreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, err
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.ExpiresAt, err = a.jwt.GenerateAccessToken(jwt.Claims{
		UserID: userData.ID,
		Email:  userData.Email,
		Role:   userData.Role,
	})
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := a.tokens.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// GoogleRedirect implements auth.AuthService.
func (a *AuthServiceImpl) GoogleRedirect(ctx context.Context) (auth.GoogleRedirect, error) {
	if a.google == nil {
		return auth.GoogleRedirect{}, auth.ErrGoogleLoginDisabled
	}
	state, err := a.google.GenerateState()
	if err != nil {
		return auth.GoogleRedirect{}, fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return auth.GoogleRedirect{URL: a.google.RedirectURL(state), State: state}, nil
}

// GoogleCallback implements auth.AuthService. Accounts are matched by email;
// an existing password account gets the Google identity linked to it.
func (a *AuthServiceImpl) GoogleCallback(ctx context.Context, code string, session auth.SessionInfo) (auth.TokenResponse, error) {
	if a.google == nil {
		return auth.TokenResponse{}, auth.ErrGoogleLoginDisabled
	}

	token, err := a.google.Exchange(ctx, code)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to exchange oauth code: %w", err)
	}
	googleUser, err := a.google.UserInfo(ctx, token)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	var tokenResponse auth.TokenResponse
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		userData, err := a.users.GetByEmail(txCtx, googleUser.Email)
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			provider := providerGoogle
			userData, err = a.createUser(txCtx, user.User{
				Email:           googleUser.Email,
				DisplayName:     googleUser.Name,
				OAuthProvider:   &provider,
				OAuthProviderID: &googleUser.GoogleID,
			})
			if err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("failed to get user data by email: %w", err)
		case userData.OAuthProviderID == nil:
			userData, err = a.users.LinkGoogleAccount(txCtx, userData.ID, googleUser.GoogleID)
			if err != nil {
				return fmt.Errorf("failed to link google account: %w", err)
			}
		}

		tokenResponse, err = a.issueTokens(txCtx, userData, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return tokenResponse, nil
}
