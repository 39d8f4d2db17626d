package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/notification"
	"github.com/thikabizhub/bizhub-backend/internal/domain/review"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/cache"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
)

// businessListingsPrefix matches the cached directory pages, which show ratings.
const businessListingsPrefix = "businesses_"

type Notifier interface {
	Notify(ctx context.Context, req notification.CreateNotificationRequest) error
}

type ReviewServiceImpl struct {
	tx         database.Transactor
	reviews    review.ReviewRepository
	businesses business.BusinessRepository
	cache      cache.Store
	notify     Notifier
}

func NewReviewService(
	tx database.Transactor,
	reviews review.ReviewRepository,
	businesses business.BusinessRepository,
	store cache.Store,
	notify Notifier,
) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		tx:         tx,
		reviews:    reviews,
		businesses: businesses,
		cache:      store,
		notify:     notify,
	}
}

// List implements review.ReviewService.
func (s *ReviewServiceImpl) List(ctx context.Context, businessID string) (review.ReviewListResponse, error) {
	rs, err := s.reviews.ListByBusiness(ctx, businessID)
	if err != nil {
		return review.ReviewListResponse{}, fmt.Errorf("failed to list reviews: %w", err)
	}

	resp := review.ReviewListResponse{Reviews: make([]review.ReviewResponse, len(rs))}
	sum := 0
	for i, r := range rs {
		resp.Reviews[i] = review.NewReviewResponse(r)
		sum += r.Rating
	}
	resp.Stats.TotalReviews = len(rs)
	if len(rs) > 0 {
		resp.Stats.AverageRating = review.RoundRating(float64(sum) / float64(len(rs)))
	}
	return resp, nil
}

// Create implements review.ReviewService.
func (s *ReviewServiceImpl) Create(ctx context.Context, reviewer review.Reviewer, req review.CreateReviewRequest) (review.CreateReviewResponse, error) {
	var (
		created review.Review
		target  business.Business
		rating  float64
		count   int
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		target, err = s.businesses.GetByID(txCtx, req.BusinessID)
		if err != nil {
			return err
		}
		if !target.IsApproved {
			return business.ErrBusinessNotFound
		}

		created, err = s.reviews.Create(txCtx, review.Review{
			BusinessID: req.BusinessID,
			UserID:     reviewer.UserID,
			UserName:   reviewer.Name,
			Rating:     req.Rating,
			Comment:    req.Comment,
		})
		if err != nil {
			return err
		}

		rating, count, err = s.businesses.RefreshRating(txCtx, req.BusinessID)
		if err != nil {
			return fmt.Errorf("failed to refresh business rating: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, review.ErrAlreadyReviewed) || errors.Is(err, business.ErrBusinessNotFound) {
			return review.CreateReviewResponse{}, err
		}
		return review.CreateReviewResponse{}, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.cache.InvalidatePattern(ctx, businessListingsPrefix); err != nil {
		slog.Warn("Failed to invalidate business listings", "error", err)
	}
	if !target.OwnedBy(reviewer.UserID) {
		s.notifyOwner(ctx, target, created)
	}

	return review.CreateReviewResponse{
		Review:        review.NewReviewResponse(created),
		AverageRating: review.RoundRating(rating),
		ReviewCount:   count,
	}, nil
}

func (s *ReviewServiceImpl) notifyOwner(ctx context.Context, b business.Business, r review.Review) {
	if s.notify == nil {
		return
	}
	err := s.notify.Notify(context.WithoutCancel(ctx), notification.CreateNotificationRequest{
		RecipientID: b.OwnerID,
		SenderID:    &r.UserID,
		Type:        notification.TypeNewReview,
		Title:       "New review",
		Message:     fmt.Sprintf("%s rated %s %d/5", r.UserName, b.Name, r.Rating),
		Data: map[string]any{
			"business_id": b.ID,
			"review_id":   r.ID,
			"rating":      r.Rating,
		},
	})
	if err != nil {
		slog.Warn("Failed to notify business owner of review", "business_id", b.ID, "error", err)
	}
}
