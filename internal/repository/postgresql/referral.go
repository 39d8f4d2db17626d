package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/referral"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
)

const referralColumns = `id, referrer_id, referrer_email, referred_user_id, referred_email,
	referral_code, status, reward_amount, created_at, completed_at`

func scanReferral(row pgx.Row) (referral.Referral, error) {
	var ref referral.Referral
	err := row.Scan(
		&ref.ID, &ref.ReferrerID, &ref.ReferrerEmail, &ref.ReferredUserID, &ref.ReferredEmail,
		&ref.ReferralCode, &ref.Status, &ref.RewardAmount, &ref.CreatedAt, &ref.CompletedAt,
	)
	return ref, err
}

type referralRepositoryImpl struct {
	db *database.DB
}

func NewReferralRepository(db *database.DB) referral.ReferralRepository {
	return &referralRepositoryImpl{db: db}
}

func (r *referralRepositoryImpl) Create(ctx context.Context, ref referral.Referral) (referral.Referral, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO referrals (
			referrer_id, referrer_email, referred_user_id, referred_email,
			referral_code, status, reward_amount, created_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + referralColumns

	created, err := scanReferral(q.QueryRow(ctx, query,
		ref.ReferrerID, ref.ReferrerEmail, ref.ReferredUserID, ref.ReferredEmail,
		ref.ReferralCode, ref.Status, ref.RewardAmount, ref.CreatedAt, ref.CompletedAt,
	))
	if err != nil {
		if isUniqueViolation(err, "referrals_referred_user_key") {
			return referral.Referral{}, referral.ErrAlreadyReferred
		}
		return referral.Referral{}, fmt.Errorf("failed to create referral: %w", err)
	}
	return created, nil
}

func (r *referralRepositoryImpl) ExistsForReferredUser(ctx context.Context, userID string) (bool, error) {
	q := GetQuerier(ctx, r.db)
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM referrals WHERE referred_user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

func (r *referralRepositoryImpl) ListByReferrer(ctx context.Context, referrerID string) ([]referral.Referral, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + referralColumns + `
		FROM referrals
		WHERE referrer_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := q.Query(ctx, query, referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := []referral.Referral{}
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
