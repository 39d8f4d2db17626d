package referral

import "context"

type ReferralRepository interface {
	// Create returns ErrAlreadyReferred when the referred user already has a referral.
	Create(ctx context.Context, r Referral) (Referral, error)
	ExistsForReferredUser(ctx context.Context, userID string) (bool, error)
	ListByReferrer(ctx context.Context, referrerID string) ([]Referral, error)
}
