package business

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/notification"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/cache"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/geo"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/storage"
)

const (
	listCachePrefix = "businesses_"
	listCacheTTL    = 5 * time.Minute
	imagePrefix     = "businesses"
)

type Notifier interface {
	Notify(ctx context.Context, req notification.CreateNotificationRequest) error
}

type BusinessServiceImpl struct {
	repo    business.BusinessRepository
	cache   cache.Store
	storage storage.FileStorage
	notify  Notifier
	now     func() time.Time
}

func NewBusinessService(repo business.BusinessRepository, store cache.Store, fileStorage storage.FileStorage, notify Notifier) *BusinessServiceImpl {
	return &BusinessServiceImpl{
		repo:    repo,
		cache:   store,
		storage: fileStorage,
		notify:  notify,
		now:     time.Now,
	}
}

// listCacheKey expects a request already passed through normalizeListRequest.
func listCacheKey(req business.ListBusinessesRequest) string {
	p := req.Page
	return fmt.Sprintf("%s%s|%s|%s|%d|%s|%s|%s|%s", listCachePrefix,
		req.Category, req.County, req.Search, p.PageSize, p.OrderField, p.Direction, p.After, p.Before)
}

// normalizeListRequest trims the search term and, when searching, pins the
// order to name ascending since prefix ranges need it.
func normalizeListRequest(req business.ListBusinessesRequest) business.ListBusinessesRequest {
	req.Search = strings.TrimSpace(req.Search)
	if req.Search != "" {
		req.Page.OrderField = "name"
		req.Page.Direction = pagination.Asc
	}
	return req
}

// List implements business.BusinessService. Pages are cached per query and
// dropped whenever the set of approved businesses changes.
func (s *BusinessServiceImpl) List(ctx context.Context, req business.ListBusinessesRequest) (pagination.Page[business.BusinessResponse], error) {
	req = normalizeListRequest(req)
	return cache.Remember(ctx, s.cache, listCacheKey(req), listCacheTTL, func(ctx context.Context) (pagination.Page[business.BusinessResponse], error) {
		pageReq := req.Page
		pageReq.Filters = append(pageReq.Filters, req.Filters()...)

		var (
			page pagination.Page[business.Business]
			err  error
		)
		search := req.Search
		if search != "" {
			page, err = pagination.Search(ctx, s.repo, "name", search, pageReq)
		} else {
			page, err = pagination.Paginate(ctx, s.repo, pageReq)
		}
		if err != nil {
			return pagination.Page[business.BusinessResponse]{}, err
		}

		countFilters := req.Filters()
		if search != "" {
			countFilters = append(countFilters, pagination.PrefixFilters("name", search)...)
		}
		total, err := pagination.TotalCount(ctx, s.repo, countFilters)
		if err != nil {
			return pagination.Page[business.BusinessResponse]{}, fmt.Errorf("failed to count businesses: %w", err)
		}

		return pagination.Page[business.BusinessResponse]{
			Items:      business.NewBusinessResponses(page.Items),
			NextCursor: page.NextCursor,
			PrevCursor: page.PrevCursor,
			HasNext:    page.HasNext,
			HasPrev:    page.HasPrev,
			TotalCount: &total,
		}, nil
	})
}

func (s *BusinessServiceImpl) invalidateListings(ctx context.Context) {
	if err := s.cache.InvalidatePattern(ctx, listCachePrefix); err != nil {
		slog.Warn("Failed to invalidate business listings", "error", err)
	}
}

// Get implements business.BusinessService.
func (s *BusinessServiceImpl) Get(ctx context.Context, id string, viewer *business.Actor) (business.BusinessResponse, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return business.BusinessResponse{}, err
	}

	if !b.IsApproved {
		if viewer == nil || (!viewer.IsAdmin && !b.OwnedBy(viewer.UserID)) {
			return business.BusinessResponse{}, business.ErrBusinessNotFound
		}
		return business.NewBusinessResponse(b), nil
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		slog.Warn("Failed to count business view", "business_id", id, "error", err)
	} else {
		b.Views++
	}
	return business.NewBusinessResponse(b), nil
}

// Nearby implements business.BusinessService. Results are ordered by
// distance, nearest first.
func (s *BusinessServiceImpl) Nearby(ctx context.Context, req business.NearbyRequest) ([]business.NearbyBusinessResponse, error) {
	center := geo.Point{Lat: req.Latitude, Lng: req.Longitude}
	radius := req.RadiusKm * 1000

	bs, err := s.repo.ListApprovedWithin(ctx, geo.BoundingBox(center, radius))
	if err != nil {
		return nil, fmt.Errorf("failed to list nearby businesses: %w", err)
	}

	out := make([]business.NearbyBusinessResponse, 0, len(bs))
	for _, b := range bs {
		if b.Latitude == nil || b.Longitude == nil {
			continue
		}
		d := geo.Distance(center, geo.Point{Lat: *b.Latitude, Lng: *b.Longitude})
		if d > radius {
			continue
		}
		out = append(out, business.NearbyBusinessResponse{
			BusinessResponse: business.NewBusinessResponse(b),
			DistanceKm:       math.Round(d/10) / 100,
		})
	}

	slices.SortStableFunc(out, func(a, b business.NearbyBusinessResponse) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})
	if len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

// Create implements business.BusinessService. New listings wait for admin approval.
func (s *BusinessServiceImpl) Create(ctx context.Context, ownerID string, req business.CreateBusinessRequest) (business.BusinessResponse, error) {
	created, err := s.repo.Create(ctx, business.Business{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		County:      req.County,
		Town:        req.Town,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       req.Phone,
		Email:       req.Email,
		WhatsApp:    req.WhatsApp,
		Website:     req.Website,
	})
	if err != nil {
		return business.BusinessResponse{}, fmt.Errorf("failed to create business: %w", err)
	}

	s.invalidateListings(ctx)
	slog.Info("Business submitted for approval", "business_id", created.ID, "owner_id", ownerID)
	return business.NewBusinessResponse(created), nil
}

// UploadImage implements business.BusinessService.
func (s *BusinessServiceImpl) UploadImage(ctx context.Context, actor business.Actor, id string, r io.Reader, contentType string) (business.BusinessResponse, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return business.BusinessResponse{}, err
	}
	if !actor.IsAdmin && !b.OwnedBy(actor.UserID) {
		return business.BusinessResponse{}, business.ErrNotOwner
	}
	if len(b.Images) >= business.MaxImages {
		return business.BusinessResponse{}, business.ErrTooManyImages
	}

	ext, err := storage.ImageExtension(contentType)
	if err != nil {
		return business.BusinessResponse{}, err
	}
	key := storage.NewKey(imagePrefix, b.ID, ext, s.now())
	if err := s.storage.Upload(ctx, r, key, contentType); err != nil {
		return business.BusinessResponse{}, fmt.Errorf("failed to upload image: %w", err)
	}

	updated, err := s.repo.AddImage(ctx, id, s.storage.URL(key))
	if err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			slog.Warn("Failed to remove orphaned image", "key", key, "error", delErr)
		}
		return business.BusinessResponse{}, err
	}

	if updated.IsApproved {
		s.invalidateListings(ctx)
	}
	return business.NewBusinessResponse(updated), nil
}

// ListMine implements business.BusinessService.
func (s *BusinessServiceImpl) ListMine(ctx context.Context, ownerID string) ([]business.BusinessResponse, error) {
	bs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner businesses: %w", err)
	}
	return business.NewBusinessResponses(bs), nil
}

// ListPending implements business.BusinessService.
func (s *BusinessServiceImpl) ListPending(ctx context.Context) ([]business.BusinessResponse, error) {
	bs, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending businesses: %w", err)
	}
	return business.NewBusinessResponses(bs), nil
}

// Approve implements business.BusinessService.
func (s *BusinessServiceImpl) Approve(ctx context.Context, id string) (business.BusinessResponse, error) {
	approved, err := s.repo.Approve(ctx, id, s.now().UTC())
	if err != nil {
		return business.BusinessResponse{}, err
	}

	s.invalidateListings(ctx)
	s.notifyOwner(ctx, approved)
	slog.Info("Business approved", "business_id", approved.ID)
	return business.NewBusinessResponse(approved), nil
}

func (s *BusinessServiceImpl) notifyOwner(ctx context.Context, b business.Business) {
	if s.notify == nil {
		return
	}
	err := s.notify.Notify(context.WithoutCancel(ctx), notification.CreateNotificationRequest{
		RecipientID: b.OwnerID,
		Type:        notification.TypeBusinessApproved,
		Title:       "Business approved",
		Message:     fmt.Sprintf("%s is now listed in the directory", b.Name),
		Data:        map[string]any{"business_id": b.ID},
	})
	if err != nil {
		slog.Warn("Failed to notify business owner", "business_id", b.ID, "error", err)
	}
}

// Reject implements business.BusinessService. The listing and its images are removed.
func (s *BusinessServiceImpl) Reject(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	for _, url := range removed.Images {
		key, ok := imageKey(url)
		if !ok {
			continue
		}
		if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
			slog.Warn("Failed to delete business image", "key", key, "error", err)
		}
	}

	s.invalidateListings(ctx)
	slog.Info("Business rejected", "business_id", id)
	return nil
}

// imageKey recovers the object key from a public image URL.
func imageKey(url string) (string, bool) {
	i := strings.Index(url, imagePrefix+"/")
	if i < 0 {
		return "", false
	}
	return url[i:], true
}

// ToggleFavorite implements business.BusinessService.
func (s *BusinessServiceImpl) ToggleFavorite(ctx context.Context, userID, businessID string) (business.FavoriteResponse, error) {
	favorite, err := s.repo.ToggleFavorite(ctx, userID, businessID)
	if err != nil {
		if errors.Is(err, business.ErrBusinessNotFound) {
			return business.FavoriteResponse{}, err
		}
		return business.FavoriteResponse{}, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return business.FavoriteResponse{BusinessID: businessID, Favorite: favorite}, nil
}

// ListFavorites implements business.BusinessService.
func (s *BusinessServiceImpl) ListFavorites(ctx context.Context, userID string) ([]business.BusinessResponse, error) {
	bs, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return business.NewBusinessResponses(bs), nil
}
