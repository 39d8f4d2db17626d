package user

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// BusinessRoleMember is granted to users who accept a business invite.
const BusinessRoleMember = "member"

type User struct {
	ID                string
	Email             string
	PasswordHash      *string
	DisplayName       string
	Phone             *string
	Role              Role
	OAuthProvider     *string
	OAuthProviderID   *string
	BusinessRole      *string
	InvitedToBusiness *string
	JoinedBusinessAt  *time.Time
	InvitedBy         *string
	JoinedViaInvite   bool
	ReferralCode      *string
	UsedReferralCode  *string
	ReferredBy        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Name is the display name, or the email when none is set.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
