package deal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/deal"
)

type DealServiceImpl struct {
	repo deal.DealRepository
	now  func() time.Time
}

func NewDealService(repo deal.DealRepository) *DealServiceImpl {
	return &DealServiceImpl{repo: repo, now: time.Now}
}

func (s *DealServiceImpl) ListActive(ctx context.Context) ([]deal.DealResponse, error) {
	deals, err := s.repo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	out := make([]deal.DealResponse, len(deals))
	for i, d := range deals {
		out[i] = deal.NewDealResponse(d)
	}
	return out, nil
}

func (s *DealServiceImpl) Create(ctx context.Context, creatorID string, req deal.CreateDealRequest) (deal.DealResponse, error) {
	created, err := s.repo.Create(ctx, deal.Deal{
		BusinessID:  req.BusinessID,
		Title:       req.Title,
		Description: req.Description,
		Discount:    req.Discount,
		ExpiresAt:   req.ExpiresAt,
		CreatedBy:   &creatorID,
	})
	if err != nil {
		return deal.DealResponse{}, err
	}
	slog.Info("Deal created", "deal_id", created.ID, "business_id", created.BusinessID)
	return deal.NewDealResponse(created), nil
}

func (s *DealServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
