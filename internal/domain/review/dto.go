package review

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type CreateReviewRequest struct {
	BusinessID string `json:"business_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func (r *CreateReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Comment = strings.TrimSpace(r.Comment)

	if validator.IsEmpty(r.BusinessID) {
		errs.Add("business_id", "business_id is required")
	} else if !validator.IsValidUUID(r.BusinessID) {
		errs.Add("business_id", "business_id must be a valid UUID")
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs.Add("rating", "rating must be between 1 and 5")
	}
	if len(r.Comment) > 1000 {
		errs.Add("comment", "comment must not exceed 1000 characters")
	}

	return errs.Err()
}

// Reviewer is the authenticated author of a review.
type Reviewer struct {
	UserID string
	Name   string
}

type ReviewResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewReviewResponse(r Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		BusinessID: r.BusinessID,
		UserID:     r.UserID,
		UserName:   r.UserName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

type ReviewStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Stats   ReviewStats      `json:"stats"`
}

type CreateReviewResponse struct {
	Review        ReviewResponse `json:"review"`
	AverageRating float64        `json:"average_rating"`
	ReviewCount   int            `json:"review_count"`
}

// RoundRating rounds to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

type ReviewService interface {
	List(ctx context.Context, businessID string) (ReviewListResponse, error)
	// Create stores the review and recomputes the business rating in one transaction.
	Create(ctx context.Context, reviewer Reviewer, req CreateReviewRequest) (CreateReviewResponse, error)
}
