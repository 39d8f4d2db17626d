package notification

import (
	"context"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type Service interface {
	// Notify queues a notification for batched insert and SSE fan-out.
	Notify(ctx context.Context, req CreateNotificationRequest) error

	List(ctx context.Context, userID string, req pagination.Request) (pagination.Page[NotificationResponse], error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) (int64, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID string, notificationID string) error

	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())
	// Stop flushes queued notifications and stops the workers.
	Stop()
}
