package auth

import (
	"strings"

	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/code"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DisplayName     string `json:"display_name"`
	ReferralCode    string `json:"referral_code,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)
	r.DisplayName = strings.TrimSpace(r.DisplayName)

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if len(r.Email) > 254 {
		errs.Add("email", "email must not exceed 254 characters")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	} else if len(r.Password) > 72 {
		errs.Add("password", "password must not exceed 72 characters")
	}
	if r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}

	if len(r.DisplayName) > 100 {
		errs.Add("display_name", "display_name must not exceed 100 characters")
	}

	if r.ReferralCode != "" {
		r.ReferralCode = code.NormalizeReferral(r.ReferralCode)
		if !validator.IsValidReferralCode(r.ReferralCode) {
			errs.Add("referral_code", "referral_code must be 8 letters or digits")
		}
	}

	return errs.Err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

// SessionInfo is recorded with each refresh token.
type SessionInfo struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken      string               `json:"access_token"`
	ExpiresAt        int64                `json:"expires_at"`
	RefreshToken     string               `json:"-"`
	RefreshExpiresAt int64                `json:"-"`
	User             user.ProfileResponse `json:"user"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type GoogleRedirect struct {
	URL   string
	State string
}
