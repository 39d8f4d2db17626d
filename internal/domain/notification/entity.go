package notification

import (
	"time"
)

type NotificationType string

const (
	TypeInviteAccepted    NotificationType = "invite_accepted"
	TypeReferralCompleted NotificationType = "referral_completed"
	TypeBusinessApproved  NotificationType = "business_approved"
	TypeProofApproved     NotificationType = "proof_approved"
	TypeNewReview         NotificationType = "new_review"
)

type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]any
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
