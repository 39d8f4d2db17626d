package business

import (
	"context"
	"io"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type BusinessService interface {
	List(ctx context.Context, req ListBusinessesRequest) (pagination.Page[BusinessResponse], error)
	// Get returns an approved business and counts the view. Owners and
	// admins may also read unapproved ones.
	Get(ctx context.Context, id string, viewer *Actor) (BusinessResponse, error)
	Nearby(ctx context.Context, req NearbyRequest) ([]NearbyBusinessResponse, error)
	Create(ctx context.Context, ownerID string, req CreateBusinessRequest) (BusinessResponse, error)
	UploadImage(ctx context.Context, actor Actor, id string, r io.Reader, contentType string) (BusinessResponse, error)
	ListMine(ctx context.Context, ownerID string) ([]BusinessResponse, error)

	ListPending(ctx context.Context) ([]BusinessResponse, error)
	Approve(ctx context.Context, id string) (BusinessResponse, error)
	Reject(ctx context.Context, id string) error

	ToggleFavorite(ctx context.Context, userID, businessID string) (FavoriteResponse, error)
	ListFavorites(ctx context.Context, userID string) ([]BusinessResponse, error)
}
