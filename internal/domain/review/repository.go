package review

import "context"

type ReviewRepository interface {
	// Create returns ErrAlreadyReviewed for a second review of the same business.
	Create(ctx context.Context, r Review) (Review, error)
	ListByBusiness(ctx context.Context, businessID string) ([]Review, error)
}
