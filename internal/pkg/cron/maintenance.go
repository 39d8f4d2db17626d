package cron

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is satisfied by the in-memory TTL cache.
type Sweeper interface {
	Cleanup() int
}

// TokenPurger is satisfied by the refresh token repository.
type TokenPurger interface {
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}

// CacheSweepJob drops expired cache entries so memory stays bounded between reads.
func CacheSweepJob(c Sweeper) JobFunc {
	return func(ctx context.Context) error {
		if n := c.Cleanup(); n > 0 {
			slog.Debug("Cache sweep removed expired entries", "count", n)
		}
		return nil
	}
}

// TokenPurgeJob deletes refresh tokens that expired more than a day ago.
func TokenPurgeJob(p TokenPurger, now func() time.Time) JobFunc {
	return func(ctx context.Context) error {
		n, err := p.DeleteExpiredRefreshTokens(ctx, now().Add(-24*time.Hour))
		if err != nil {
			return err
		}
		if n > 0 {
			slog.Info("Purged expired refresh tokens", "count", n)
		}
		return nil
	}
}
