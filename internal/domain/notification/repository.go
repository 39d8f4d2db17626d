package notification

import (
	"context"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type Repository interface {
	// Fetch and Count expect a recipient_id filter.
	pagination.Source[Notification]

	Create(ctx context.Context, n *Notification) error
	CreateBatch(ctx context.Context, ns []*Notification) error
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, userID string) (int64, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string, userID string) error
}
