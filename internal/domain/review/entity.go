package review

import "time"

type Review struct {
	ID         string
	BusinessID string
	UserID     string
	UserName   string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}
