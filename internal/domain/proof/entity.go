package proof

import "time"

// Proof is a photo a user submits as evidence of visiting a business.
// It is public only after an admin approves it.
type Proof struct {
	ID           string
	UserID       string
	BusinessID   string
	BusinessName string
	ImageKey     string
	ImageURL     string
	Caption      string
	Approved     bool
	ApprovedAt   *time.Time
	CreatedAt    time.Time
}
