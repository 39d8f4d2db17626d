package user

import (
	"context"
	"strings"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type ProfileResponse struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	DisplayName       string     `json:"display_name"`
	Phone             *string    `json:"phone,omitempty"`
	Role              Role       `json:"role"`
	BusinessRole      *string    `json:"business_role,omitempty"`
	InvitedToBusiness *string    `json:"invited_to_business,omitempty"`
	JoinedBusinessAt  *time.Time `json:"joined_business_at,omitempty"`
	JoinedViaInvite   bool       `json:"joined_via_invite"`
	InvitedBy         *string    `json:"invited_by,omitempty"`
	ReferralCode      *string    `json:"referral_code,omitempty"`
	ReferredBy        *string    `json:"referred_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func NewProfileResponse(u User) ProfileResponse {
	return ProfileResponse{
		ID:                u.ID,
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		Phone:             u.Phone,
		Role:              u.Role,
		BusinessRole:      u.BusinessRole,
		InvitedToBusiness: u.InvitedToBusiness,
		JoinedBusinessAt:  u.JoinedBusinessAt,
		JoinedViaInvite:   u.JoinedViaInvite,
		InvitedBy:         u.InvitedBy,
		ReferralCode:      u.ReferralCode,
		ReferredBy:        u.ReferredBy,
		CreatedAt:         u.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DisplayName != nil {
		name := strings.TrimSpace(*r.DisplayName)
		r.DisplayName = &name
		if name == "" {
			errs.Add("display_name", "display_name must not be empty")
		} else if len(name) > 100 {
			errs.Add("display_name", "display_name must not exceed 100 characters")
		}
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must be a valid Kenyan phone number")
	}
	if r.DisplayName == nil && r.Phone == nil {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

type SetRoleRequest struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

func (r *SetRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	} else if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}
	if !r.Role.Valid() {
		errs.Add("role", "role must be one of: user, admin")
	}

	return errs.Err()
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (ProfileResponse, error)
	List(ctx context.Context, req pagination.Request) (pagination.Page[ProfileResponse], error)
	SetRole(ctx context.Context, actorID string, req SetRoleRequest) error
}
