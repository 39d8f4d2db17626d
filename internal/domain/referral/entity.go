package referral

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Referral is created once per referred user.
type Referral struct {
	ID             string
	ReferrerID     string
	ReferrerEmail  string
	ReferredUserID string
	ReferredEmail  string
	ReferralCode   string
	Status         Status
	RewardAmount   int
	CreatedAt      time.Time
	CompletedAt    *time.Time
}
