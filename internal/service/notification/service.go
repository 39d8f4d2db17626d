package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thikabizhub/bizhub-backend/internal/domain/notification"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/sse"
)

const eventNotification = "notification"

// Config tunes the write-behind queue. Zero fields take the defaults below.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
	WorkerCount   int
	QueueSize     int
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 5 * time.Second
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1000
	}
	return c
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config
	now    func() time.Time

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService starts cfg.WorkerCount writers. Call Stop to flush
// pending notifications on shutdown.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	cfg = cfg.withDefaults()
	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		now:    time.Now,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	s.wg.Add(cfg.WorkerCount)
	for i := range cfg.WorkerCount {
		go s.runWorker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)
	return s
}

func (s *service) newEntity(req notification.CreateNotificationRequest) *notification.Notification {
	return &notification.Notification{
		ID:          uuid.New().String(),
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   s.now(),
	}
}

func (s *service) publish(n *notification.Notification) {
	s.hub.Publish(n.RecipientID, sse.Event{
		Type: eventNotification,
		Data: notification.NewNotificationResponse(n),
	})
}

func (s *service) stopped() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}

// Notify queues req for the next batch. After Stop, or with a full queue,
// it writes req synchronously instead.
func (s *service) Notify(ctx context.Context, req notification.CreateNotificationRequest) error {
	if s.stopped() {
		return s.directInsert(ctx, req)
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		slog.Warn("Notification queue full, inserting directly", "recipient_id", req.RecipientID)
		return s.directInsert(ctx, req)
	}
}

// List pages the user's notifications, newest first unless asked otherwise.
func (s *service) List(ctx context.Context, userID string, req pagination.Request) (pagination.Page[notification.NotificationResponse], error) {
	req.OrderField = "created_at"
	req.Filters = append(req.Filters, pagination.Eq("recipient_id", userID))

	page, err := pagination.Paginate[notification.Notification](ctx, s.repo, req)
	if err != nil {
		return pagination.Page[notification.NotificationResponse]{}, err
	}

	out := pagination.Page[notification.NotificationResponse]{
		Items:      make([]notification.NotificationResponse, len(page.Items)),
		NextCursor: page.NextCursor,
		PrevCursor: page.PrevCursor,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
	}
	for i := range page.Items {
		out.Items[i] = notification.NewNotificationResponse(&page.Items[i])
	}
	return out, nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) (int64, error) {
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string, notificationID string) error {
	return s.repo.Delete(ctx, notificationID, userID)
}

// Subscribe forwards the user's hub events until ctx ends. The returned func
// unregisters from the hub.
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	events, unsubscribe := s.hub.Subscribe(userID)
	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			var ev sse.Event
			var ok bool
			select {
			case ev, ok = <-events:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}

			resp, isNotification := ev.Data.(notification.NotificationResponse)
			if !isNotification {
				continue
			}
			select {
			case out <- notification.SSEEvent{Event: ev.Type, Data: resp}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, unsubscribe
}

func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}
