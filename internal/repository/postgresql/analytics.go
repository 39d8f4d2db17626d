package postgresql

import (
	"context"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/analytics"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
)

type analyticsRepositoryImpl struct {
	db *database.DB
}

func NewAnalyticsRepository(db *database.DB) analytics.AnalyticsRepository {
	return &analyticsRepositoryImpl{db: db}
}

func (r *analyticsRepositoryImpl) Overview(ctx context.Context) (analytics.Overview, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM businesses),
			(SELECT COUNT(*) FROM businesses WHERE is_approved = TRUE),
			(SELECT COUNT(*) FROM businesses WHERE is_approved = FALSE),
			(SELECT COUNT(*) FROM invites),
			(SELECT COUNT(*) FROM referrals)
	`
	var o analytics.Overview
	err := q.QueryRow(ctx, query).Scan(
		&o.TotalUsers,
		&o.TotalBusinesses,
		&o.ApprovedBusinesses,
		&o.PendingBusinesses,
		&o.TotalInvites,
		&o.TotalReferrals,
	)
	return o, err
}

func (r *analyticsRepositoryImpl) Growth(ctx context.Context, since time.Time) (analytics.Growth, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE created_at >= $1),
			(SELECT COUNT(*) FROM businesses WHERE created_at >= $1)
	`
	var g analytics.Growth
	err := q.QueryRow(ctx, query, since).Scan(&g.NewUsersThisWeek, &g.NewBusinessesThisWeek)
	return g, err
}

func (r *analyticsRepositoryImpl) countBy(ctx context.Context, query string) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

func (r *analyticsRepositoryImpl) BusinessesByCategory(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, `SELECT category, COUNT(*) FROM businesses GROUP BY category`)
}

func (r *analyticsRepositoryImpl) BusinessesByCounty(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, `SELECT county, COUNT(*) FROM businesses GROUP BY county`)
}

func (r *analyticsRepositoryImpl) RecentUsers(ctx context.Context, since time.Time, limit int) ([]analytics.RecentUser, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, display_name, role, created_at
		FROM users
		WHERE created_at >= $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := q.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []analytics.RecentUser{}
	for rows.Next() {
		var u analytics.RecentUser
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *analyticsRepositoryImpl) RecentBusinesses(ctx context.Context, since time.Time, limit int) ([]analytics.RecentBusiness, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, category, county, is_approved, created_at
		FROM businesses
		WHERE created_at >= $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := q.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := []analytics.RecentBusiness{}
	for rows.Next() {
		var b analytics.RecentBusiness
		if err := rows.Scan(&b.ID, &b.Name, &b.Category, &b.County, &b.IsApproved, &b.CreatedAt); err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}
	return businesses, rows.Err()
}

// CategoryInsights averages ratings over reviewed businesses only; the top
// performer is the highest rated business with at least one review.
func (r *analyticsRepositoryImpl) CategoryInsights(ctx context.Context) ([]analytics.CategoryInsight, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			b.category,
			COUNT(*) AS total_businesses,
			COALESCE(AVG(b.rating) FILTER (WHERE b.review_count > 0), 0)::float8 AS average_rating,
			COALESCE(SUM(b.review_count), 0)::int8 AS total_reviews,
			(
				SELECT t.name FROM businesses t
				WHERE t.category = b.category AND t.review_count > 0
				ORDER BY t.rating DESC, t.review_count DESC, t.id
				LIMIT 1
			) AS top_performer
		FROM businesses b
		GROUP BY b.category
		ORDER BY total_businesses DESC, b.category
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	insights := []analytics.CategoryInsight{}
	for rows.Next() {
		var c analytics.CategoryInsight
		if err := rows.Scan(&c.Category, &c.TotalBusinesses, &c.AverageRating, &c.TotalReviews, &c.TopPerformer); err != nil {
			return nil, err
		}
		insights = append(insights, c)
	}
	return insights, rows.Err()
}
