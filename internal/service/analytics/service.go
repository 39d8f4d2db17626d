package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/analytics"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/cache"
)

const (
	dashboardTTL = 10 * time.Minute
	insightsTTL  = 5 * time.Minute

	growthWindow = 7 * 24 * time.Hour
	recentWindow = 30 * 24 * time.Hour
	recentLimit  = 10
)

type AnalyticsServiceImpl struct {
	repo  analytics.AnalyticsRepository
	cache cache.Store
	now   func() time.Time
}

func NewAnalyticsService(repo analytics.AnalyticsRepository, store cache.Store) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{repo: repo, cache: store, now: time.Now}
}

// Dashboard implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Dashboard(ctx context.Context) (analytics.Dashboard, error) {
	return cache.Remember(ctx, s.cache, analytics.DashboardCacheKey, dashboardTTL, s.buildDashboard)
}

func (s *AnalyticsServiceImpl) buildDashboard(ctx context.Context) (analytics.Dashboard, error) {
	now := s.now().UTC()
	var d analytics.Dashboard
	var err error

	if d.Overview, err = s.repo.Overview(ctx); err != nil {
		return analytics.Dashboard{}, fmt.Errorf("failed to load overview: %w", err)
	}
	if d.Growth, err = s.repo.Growth(ctx, now.Add(-growthWindow)); err != nil {
		return analytics.Dashboard{}, fmt.Errorf("failed to load growth: %w", err)
	}
	if d.Breakdown.ByCategory, err = s.repo.BusinessesByCategory(ctx); err != nil {
		return analytics.Dashboard{}, fmt.Errorf("failed to load category breakdown: %w", err)
	}
	if d.Breakdown.ByCounty, err = s.repo.BusinessesByCounty(ctx); err != nil {
		return analytics.Dashboard{}, fmt.Errorf("failed to load county breakdown: %w", err)
	}

	since := now.Add(-recentWindow)
	if d.Recent.Users, err = s.repo.RecentUsers(ctx, since, recentLimit); err != nil {
		return analytics.Dashboard{}, fmt.Errorf("failed to load recent users: %w", err)
	}
	if d.Recent.Businesses, err = s.repo.RecentBusinesses(ctx, since, recentLimit); err != nil {
		return analytics.Dashboard{}, fmt.Errorf("failed to load recent businesses: %w", err)
	}

	d.LastUpdated = now
	return d, nil
}

// Insights implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Insights(ctx context.Context) (analytics.Insights, error) {
	return cache.Remember(ctx, s.cache, analytics.InsightsCacheKey, insightsTTL, func(ctx context.Context) (analytics.Insights, error) {
		stats, err := s.repo.CategoryInsights(ctx)
		if err != nil {
			return analytics.Insights{}, fmt.Errorf("failed to load category insights: %w", err)
		}
		if stats == nil {
			stats = []analytics.CategoryInsight{}
		}
		return analytics.Insights{CategoryStats: stats}, nil
	})
}
