package deal

import (
	"context"
	"strings"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type CreateDealRequest struct {
	BusinessID  string     `json:"business_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Discount    string     `json:"discount"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (r *CreateDealRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)

	if validator.IsEmpty(r.BusinessID) {
		errs.Add("business_id", "business_id is required")
	} else if !validator.IsValidUUID(r.BusinessID) {
		errs.Add("business_id", "business_id must be a valid UUID")
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 150 {
		errs.Add("title", "title must not exceed 150 characters")
	}
	if len(r.Discount) > 50 {
		errs.Add("discount", "discount must not exceed 50 characters")
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(now) {
		errs.Add("expires_at", "expires_at must be in the future")
	}

	return errs.Err()
}

type DealResponse struct {
	ID           string     `json:"id"`
	BusinessID   string     `json:"business_id"`
	BusinessName string     `json:"business_name"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Discount     string     `json:"discount,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewDealResponse(d Deal) DealResponse {
	return DealResponse{
		ID:           d.ID,
		BusinessID:   d.BusinessID,
		BusinessName: d.BusinessName,
		Title:        d.Title,
		Description:  d.Description,
		Discount:     d.Discount,
		ExpiresAt:    d.ExpiresAt,
		CreatedAt:    d.CreatedAt,
	}
}

type DealService interface {
	ListActive(ctx context.Context) ([]DealResponse, error)
	Create(ctx context.Context, creatorID string, req CreateDealRequest) (DealResponse, error)
	Delete(ctx context.Context, id string) error
}
