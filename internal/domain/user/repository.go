package user

import (
	"context"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type UserRepository interface {
	pagination.Source[User]

	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByReferralCode(ctx context.Context, code string) (User, error)
	CountAll(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (User, error)
	UpdateRole(ctx context.Context, id string, role Role) error
	LinkGoogleAccount(ctx context.Context, id, googleID string) (User, error)

	// AssignReferralCode sets code unless the user already has one and
	// returns the code the user ends up with. A code held by someone else
	// yields ErrReferralCodeTaken.
	AssignReferralCode(ctx context.Context, id, code string) (string, error)
	SetReferredBy(ctx context.Context, id, referrerID, code string) error
	GrantBusinessRole(ctx context.Context, id, businessName string, at time.Time) error
	MarkJoinedViaInvite(ctx context.Context, id, inviterID string) error
}
