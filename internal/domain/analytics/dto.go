package analytics

import "time"

type Overview struct {
	TotalUsers         int64 `json:"total_users"`
	TotalBusinesses    int64 `json:"total_businesses"`
	ApprovedBusinesses int64 `json:"approved_businesses"`
	PendingBusinesses  int64 `json:"pending_businesses"`
	TotalInvites       int64 `json:"total_invites"`
	TotalReferrals     int64 `json:"total_referrals"`
}

type Growth struct {
	NewUsersThisWeek      int64 `json:"new_users_this_week"`
	NewBusinessesThisWeek int64 `json:"new_businesses_this_week"`
}

type Breakdown struct {
	ByCategory map[string]int64 `json:"by_category"`
	ByCounty   map[string]int64 `json:"by_county"`
}

type RecentUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type RecentBusiness struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	County     string    `json:"county"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

type Recent struct {
	Users      []RecentUser     `json:"users"`
	Businesses []RecentBusiness `json:"businesses"`
}

type Dashboard struct {
	Overview    Overview  `json:"overview"`
	Growth      Growth    `json:"growth"`
	Breakdown   Breakdown `json:"breakdown"`
	Recent      Recent    `json:"recent"`
	LastUpdated time.Time `json:"last_updated"`
}

type CategoryInsight struct {
	Category        string  `json:"category"`
	TotalBusinesses int64   `json:"total_businesses"`
	AverageRating   float64 `json:"average_rating"`
	TotalReviews    int64   `json:"total_reviews"`
	TopPerformer    *string `json:"top_performer"`
}

type Insights struct {
	CategoryStats []CategoryInsight `json:"category_stats"`
}
