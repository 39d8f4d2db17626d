package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/invite"
	"github.com/thikabizhub/bizhub-backend/internal/domain/referral"
	"github.com/thikabizhub/bizhub-backend/internal/repository/postgresql"
)

func TestInviteRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewInviteRepository(db)
	ctx := context.Background()

	inviter := createUser(t, db, "inviter@example.com")
	invitee := createUser(t, db, "invitee@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	inv := invite.Invite{
		InviterID:    inviter.ID,
		InviterEmail: inviter.Email,
		InviterName:  inviter.DisplayName,
		InviteeEmail: invitee.Email,
		Type:         invite.TypeUser,
		Message:      "Join me on BizHub",
		InviteCode:   "ABCD1234",
		CreatedAt:    now,
		ExpiresAt:    now.Add(7 * 24 * time.Hour),
	}
	created, err := repo.Create(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, invite.StatusPending, created.Status)

	_, err = repo.Create(ctx, inv)
	assert.ErrorIs(t, err, invite.ErrInviteCodeTaken)

	exists, err := repo.ExistsPending(ctx, inviter.ID, invitee.Email, invite.TypeUser, now)
	require.NoError(t, err)
	assert.True(t, exists)

	// Expired invites no longer block a new one.
	exists, err = repo.ExistsPending(ctx, inviter.ID, invitee.Email, invite.TypeUser, now.Add(8*24*time.Hour))
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := repo.GetByCode(ctx, "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByCode(ctx, "ZZZZ9999")
	assert.ErrorIs(t, err, invite.ErrInviteNotFound)

	accepted, err := repo.MarkAccepted(ctx, created.ID, invitee.ID, now)
	require.NoError(t, err)
	assert.Equal(t, invite.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedBy)
	assert.Equal(t, invitee.ID, *accepted.AcceptedBy)

	_, err = repo.MarkAccepted(ctx, created.ID, invitee.ID, now)
	assert.ErrorIs(t, err, invite.ErrAlreadyProcessed)

	sent, err := repo.ListByInviter(ctx, inviter.ID)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	received, err := repo.ListByInviteeEmail(ctx, invitee.Email)
	require.NoError(t, err)
	assert.Len(t, received, 1)
}

func TestInviteRepository_LockPendingInTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewInviteRepository(db)
	tx := postgresql.NewTransactor(db)

	inviter := createUser(t, db, "inviter@example.com")

	err := tx.WithinTransaction(context.Background(), func(txCtx context.Context) error {
		return repo.LockPending(txCtx, inviter.ID, "friend@example.com", invite.TypeUser)
	})
	assert.NoError(t, err)
}

func TestReferralRepository_OnePerReferredUser(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewReferralRepository(db)
	ctx := context.Background()

	referrer := createUser(t, db, "referrer@example.com")
	referred := createUser(t, db, "referred@example.com")

	ref := referral.Referral{
		ReferrerID:     referrer.ID,
		ReferrerEmail:  referrer.Email,
		ReferredUserID: referred.ID,
		ReferredEmail:  referred.Email,
		ReferralCode:   "THIKA001",
		Status:         referral.StatusCompleted,
		RewardAmount:   100,
		CreatedAt:      time.Now().UTC(),
	}
	created, err := repo.Create(ctx, ref)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, ref)
	assert.ErrorIs(t, err, referral.ErrAlreadyReferred)

	exists, err := repo.ExistsForReferredUser(ctx, referred.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	list, err := repo.ListByReferrer(ctx, referrer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 100, list[0].RewardAmount)
}
