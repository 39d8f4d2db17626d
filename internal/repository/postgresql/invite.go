package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/invite"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
)

const inviteColumns = `id, inviter_id, inviter_email, inviter_name, invitee_email, type, business_name,
	message, invite_code, status, created_at, expires_at, accepted_at, accepted_by`

func scanInvite(row pgx.Row) (invite.Invite, error) {
	var inv invite.Invite
	err := row.Scan(
		&inv.ID, &inv.InviterID, &inv.InviterEmail, &inv.InviterName, &inv.InviteeEmail,
		&inv.Type, &inv.BusinessName, &inv.Message, &inv.InviteCode, &inv.Status,
		&inv.CreatedAt, &inv.ExpiresAt, &inv.AcceptedAt, &inv.AcceptedBy,
	)
	return inv, err
}

type inviteRepositoryImpl struct {
	db *database.DB
}

func NewInviteRepository(db *database.DB) invite.InviteRepository {
	return &inviteRepositoryImpl{db: db}
}

// LockPending takes a transaction scoped advisory lock keyed on the triple.
// Outside a transaction the lock is released immediately and has no effect.
func (r *inviteRepositoryImpl) LockPending(ctx context.Context, inviterID, inviteeEmail string, inviteType invite.Type) error {
	q := GetQuerier(ctx, r.db)
	key := inviterID + "|" + inviteeEmail + "|" + string(inviteType)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("lock pending invite: %w", err)
	}
	return nil
}

func (r *inviteRepositoryImpl) ExistsPending(ctx context.Context, inviterID, inviteeEmail string, inviteType invite.Type, now time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM invites
			WHERE inviter_id = $1
			  AND invitee_email = $2
			  AND type = $3
			  AND status = 'pending'
			  AND expires_at >= $4
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, inviterID, inviteeEmail, inviteType, now).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *inviteRepositoryImpl) Create(ctx context.Context, inv invite.Invite) (invite.Invite, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invites (
			inviter_id, inviter_email, inviter_name, invitee_email, type,
			business_name, message, invite_code, status, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9, $10)
		ON CONFLICT (invite_code) DO NOTHING
		RETURNING ` + inviteColumns

	created, err := scanInvite(q.QueryRow(ctx, query,
		inv.InviterID, inv.InviterEmail, inv.InviterName, inv.InviteeEmail, inv.Type,
		inv.BusinessName, inv.Message, inv.InviteCode, inv.CreatedAt, inv.ExpiresAt,
	))
	if err != nil {
		// A code collision inserts nothing and leaves the transaction usable.
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err, "invites_invite_code_key") {
			return invite.Invite{}, invite.ErrInviteCodeTaken
		}
		return invite.Invite{}, fmt.Errorf("failed to create invite: %w", err)
	}
	return created, nil
}

func (r *inviteRepositoryImpl) getOne(ctx context.Context, query string, args ...any) (invite.Invite, error) {
	q := GetQuerier(ctx, r.db)
	inv, err := scanInvite(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invite.Invite{}, invite.ErrInviteNotFound
		}
		return invite.Invite{}, err
	}
	return inv, nil
}

func (r *inviteRepositoryImpl) GetByCode(ctx context.Context, code string) (invite.Invite, error) {
	return r.getOne(ctx, `SELECT `+inviteColumns+` FROM invites WHERE invite_code = $1`, code)
}

func (r *inviteRepositoryImpl) GetByCodeForUpdate(ctx context.Context, code string) (invite.Invite, error) {
	return r.getOne(ctx, `SELECT `+inviteColumns+` FROM invites WHERE invite_code = $1 FOR UPDATE`, code)
}

// MarkAccepted only moves pending invites; an already accepted row reports ErrAlreadyProcessed.
func (r *inviteRepositoryImpl) MarkAccepted(ctx context.Context, id, userID string, at time.Time) (invite.Invite, error) {
	query := `
		UPDATE invites
		SET status = 'accepted', accepted_at = $3, accepted_by = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + inviteColumns

	inv, err := r.getOne(ctx, query, id, userID, at)
	if errors.Is(err, invite.ErrInviteNotFound) {
		return invite.Invite{}, invite.ErrAlreadyProcessed
	}
	return inv, err
}

func (r *inviteRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]invite.Invite, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []invite.Invite{}
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *inviteRepositoryImpl) ListByInviter(ctx context.Context, inviterID string) ([]invite.Invite, error) {
	return r.list(ctx, `
		SELECT `+inviteColumns+`
		FROM invites
		WHERE inviter_id = $1
		ORDER BY created_at DESC, id DESC`, inviterID)
}

func (r *inviteRepositoryImpl) ListByInviteeEmail(ctx context.Context, email string) ([]invite.Invite, error) {
	return r.list(ctx, `
		SELECT `+inviteColumns+`
		FROM invites
		WHERE invitee_email = lower($1)
		ORDER BY created_at DESC, id DESC`, email)
}

func (r *inviteRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM invites`).Scan(&n)
	return n, err
}
