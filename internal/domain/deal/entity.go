package deal

import "time"

type Deal struct {
	ID           string
	BusinessID   string
	BusinessName string
	Title        string
	Description  string
	Discount     string
	ExpiresAt    *time.Time
	CreatedBy    *string
	CreatedAt    time.Time
}

// IsActive reports whether the deal has no expiry or has not yet expired.
func (d *Deal) IsActive(now time.Time) bool {
	return d.ExpiresAt == nil || !d.ExpiresAt.Before(now)
}
