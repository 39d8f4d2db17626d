package invite

import (
	"context"
	"time"
)

type InviteRepository interface {
	// LockPending serializes creators of the same (inviter, invitee, type)
	// until the surrounding transaction ends.
	LockPending(ctx context.Context, inviterID, inviteeEmail string, inviteType Type) error
	ExistsPending(ctx context.Context, inviterID, inviteeEmail string, inviteType Type, now time.Time) (bool, error)

	// Create returns ErrInviteCodeTaken when the code collides.
	Create(ctx context.Context, inv Invite) (Invite, error)
	GetByCode(ctx context.Context, code string) (Invite, error)
	// GetByCodeForUpdate locks the row until the surrounding transaction ends.
	GetByCodeForUpdate(ctx context.Context, code string) (Invite, error)
	MarkAccepted(ctx context.Context, id, userID string, at time.Time) (Invite, error)

	ListByInviter(ctx context.Context, inviterID string) ([]Invite, error)
	ListByInviteeEmail(ctx context.Context, email string) ([]Invite, error)
	CountAll(ctx context.Context) (int64, error)
}
