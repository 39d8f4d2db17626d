package referral

import (
	"context"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/code"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type ApplyReferralRequest struct {
	ReferralCode string `json:"referral_code"`
}

func (r *ApplyReferralRequest) Validate() error {
	var errs validator.ValidationErrors

	r.ReferralCode = code.NormalizeReferral(r.ReferralCode)
	if validator.IsEmpty(r.ReferralCode) {
		errs.Add("referral_code", "referral_code is required")
	}

	return errs.Err()
}

// Referred identifies the user redeeming a code.
type Referred struct {
	UserID string
	Email  string
}

type ReferralResponse struct {
	ID             string     `json:"id"`
	ReferrerID     string     `json:"referrer_id"`
	ReferredUserID string     `json:"referred_user_id"`
	ReferredEmail  string     `json:"referred_email"`
	ReferralCode   string     `json:"referral_code"`
	Status         Status     `json:"status"`
	RewardAmount   int        `json:"reward_amount"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func NewReferralResponse(r Referral) ReferralResponse {
	return ReferralResponse{
		ID:             r.ID,
		ReferrerID:     r.ReferrerID,
		ReferredUserID: r.ReferredUserID,
		ReferredEmail:  r.ReferredEmail,
		ReferralCode:   r.ReferralCode,
		Status:         r.Status,
		RewardAmount:   r.RewardAmount,
		CreatedAt:      r.CreatedAt,
		CompletedAt:    r.CompletedAt,
	}
}

type ReferralStats struct {
	TotalReferrals      int `json:"total_referrals"`
	SuccessfulReferrals int `json:"successful_referrals"`
	PendingReferrals    int `json:"pending_referrals"`
	TotalRewards        int `json:"total_rewards"`
}

type ReferralInfoResponse struct {
	ReferralCode string             `json:"referral_code"`
	ReferralLink string             `json:"referral_link"`
	Stats        ReferralStats      `json:"stats"`
	Referrals    []ReferralResponse `json:"referrals"`
}

type ReferralService interface {
	// GetInfo issues the caller's referral code on first use.
	GetInfo(ctx context.Context, userID string) (ReferralInfoResponse, error)
	Apply(ctx context.Context, referred Referred, referralCode string) (ReferralResponse, error)
}
