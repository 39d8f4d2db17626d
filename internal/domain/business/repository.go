package business

import (
	"context"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/geo"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type BusinessRepository interface {
	pagination.Source[Business]

	Create(ctx context.Context, b Business) (Business, error)
	GetByID(ctx context.Context, id string) (Business, error)
	IncrementViews(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Business, error)
	ListPending(ctx context.Context) ([]Business, error)
	// ListApprovedWithin returns approved businesses with coordinates inside box.
	ListApprovedWithin(ctx context.Context, box geo.Box) ([]Business, error)
	Approve(ctx context.Context, id string, at time.Time) (Business, error)
	// Delete removes the business and returns it so stored images can be cleaned up.
	Delete(ctx context.Context, id string) (Business, error)
	AddImage(ctx context.Context, id, url string) (Business, error)
	// RefreshRating recomputes rating and review_count from the reviews table.
	RefreshRating(ctx context.Context, id string) (rating float64, count int, err error)

	// ToggleFavorite adds the favorite if absent, otherwise removes it, and
	// reports whether it is now a favorite.
	ToggleFavorite(ctx context.Context, userID, businessID string) (bool, error)
	ListFavorites(ctx context.Context, userID string) ([]Business, error)
}
