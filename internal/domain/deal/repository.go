package deal

import (
	"context"
	"time"
)

type DealRepository interface {
	Create(ctx context.Context, d Deal) (Deal, error)
	// ListActive returns deals without expiry or expiring at or after now, newest first.
	ListActive(ctx context.Context, now time.Time) ([]Deal, error)
	Delete(ctx context.Context, id string) error
}
