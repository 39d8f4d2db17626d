package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/notification"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/metrics"
)

const (
	pathBatch  = "batch"
	pathDirect = "direct"

	flushTimeout = 30 * time.Second
)

// batch collects queued requests for one worker until it is flushed.
type batch struct {
	svc   *service
	id    int
	items []notification.CreateNotificationRequest
}

// add appends req and flushes once the batch is full.
func (b *batch) add(req notification.CreateNotificationRequest) {
	b.items = append(b.items, req)
	if len(b.items) >= b.svc.config.BatchSize {
		b.flush()
	}
}

// flush writes the batch in one insert and publishes it only when the
// insert succeeded. The batch is emptied either way.
func (b *batch) flush() {
	if len(b.items) == 0 {
		return
	}
	defer func() { b.items = b.items[:0] }()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	ns := make([]*notification.Notification, len(b.items))
	for i, req := range b.items {
		ns[i] = b.svc.newEntity(req)
	}

	if err := b.svc.repo.CreateBatch(ctx, ns); err != nil {
		metrics.NotificationStoreFailuresTotal.WithLabelValues(pathBatch).Add(float64(len(ns)))
		slog.Error("Notification batch insert failed", "worker", b.id, "count", len(ns), "error", err)
		return
	}
	metrics.NotificationsStoredTotal.WithLabelValues(pathBatch).Add(float64(len(ns)))
	slog.Debug("Notifications inserted", "worker", b.id, "count", len(ns))
	for _, n := range ns {
		b.svc.publish(n)
	}
}

// drain moves whatever is still queued into the batch without blocking.
func (b *batch) drain() {
	for {
		select {
		case req := <-b.svc.queue:
			b.add(req)
		default:
			return
		}
	}
}

// runWorker consumes the queue until Stop, flushing every FlushInterval.
func (s *service) runWorker(id int) {
	defer s.wg.Done()

	b := &batch{svc: s, id: id, items: make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)}
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case req := <-s.queue:
			b.add(req)
		case <-ticker.C:
			b.flush()
		case <-s.stopCh:
			b.drain()
			b.flush()
			return
		}
	}
}

func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := s.newEntity(req)
	if err := s.repo.Create(ctx, n); err != nil {
		metrics.NotificationStoreFailuresTotal.WithLabelValues(pathDirect).Inc()
		return err
	}
	metrics.NotificationsStoredTotal.WithLabelValues(pathDirect).Inc()
	s.publish(n)
	return nil
}
