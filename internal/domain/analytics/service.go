package analytics

import "context"

const (
	DashboardCacheKey = "dashboard_analytics"
	InsightsCacheKey  = "category_insights"
)

type AnalyticsService interface {
	Dashboard(ctx context.Context) (Dashboard, error)
	Insights(ctx context.Context) (Insights, error)
}
