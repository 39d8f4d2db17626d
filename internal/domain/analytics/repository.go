package analytics

import (
	"context"
	"time"
)

type AnalyticsRepository interface {
	Overview(ctx context.Context) (Overview, error)
	Growth(ctx context.Context, since time.Time) (Growth, error)
	BusinessesByCategory(ctx context.Context) (map[string]int64, error)
	BusinessesByCounty(ctx context.Context) (map[string]int64, error)
	RecentUsers(ctx context.Context, since time.Time, limit int) ([]RecentUser, error)
	RecentBusinesses(ctx context.Context, since time.Time, limit int) ([]RecentBusiness, error)
	// CategoryInsights returns per-category aggregates ordered by business count.
	CategoryInsights(ctx context.Context) ([]CategoryInsight, error)
}
