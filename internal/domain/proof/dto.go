package proof

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

// MaxImageBytes bounds a single proof-of-visit upload.
const MaxImageBytes = 5 << 20

type SubmitProofRequest struct {
	BusinessID  string
	Caption     string
	Image       io.Reader
	ContentType string
}

func (r *SubmitProofRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Caption = strings.TrimSpace(r.Caption)

	if validator.IsEmpty(r.BusinessID) {
		errs.Add("business_id", "business_id is required")
	} else if !validator.IsValidUUID(r.BusinessID) {
		errs.Add("business_id", "business_id must be a valid UUID")
	}
	if len(r.Caption) > 300 {
		errs.Add("caption", "caption must not exceed 300 characters")
	}
	if r.Image == nil {
		errs.Add("image", "image is required")
	}

	return errs.Err()
}

type ProofResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	BusinessID   string     `json:"business_id"`
	BusinessName string     `json:"business_name"`
	ImageURL     string     `json:"image_url"`
	Caption      string     `json:"caption,omitempty"`
	Approved     bool       `json:"approved"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewProofResponse(p Proof) ProofResponse {
	return ProofResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		BusinessID:   p.BusinessID,
		BusinessName: p.BusinessName,
		ImageURL:     p.ImageURL,
		Caption:      p.Caption,
		Approved:     p.Approved,
		ApprovedAt:   p.ApprovedAt,
		CreatedAt:    p.CreatedAt,
	}
}

type ProofService interface {
	ListApproved(ctx context.Context) ([]ProofResponse, error)
	Submit(ctx context.Context, userID string, req SubmitProofRequest) (ProofResponse, error)
	ListPending(ctx context.Context) ([]ProofResponse, error)
	Approve(ctx context.Context, id string) (ProofResponse, error)
	Reject(ctx context.Context, id string) error
}
