package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/deal"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
)

const dealSelect = `
	SELECT d.id, d.business_id, b.name, d.title, d.description, d.discount, d.expires_at, d.created_by, d.created_at
	FROM deals d
	JOIN businesses b ON b.id = d.business_id`

func scanDeal(row pgx.Row) (deal.Deal, error) {
	var d deal.Deal
	err := row.Scan(
		&d.ID, &d.BusinessID, &d.BusinessName, &d.Title, &d.Description,
		&d.Discount, &d.ExpiresAt, &d.CreatedBy, &d.CreatedAt,
	)
	return d, err
}

type dealRepositoryImpl struct {
	db *database.DB
}

func NewDealRepository(db *database.DB) deal.DealRepository {
	return &dealRepositoryImpl{db: db}
}

func (r *dealRepositoryImpl) Create(ctx context.Context, d deal.Deal) (deal.Deal, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO deals (business_id, title, description, discount, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		d.BusinessID, d.Title, d.Description, d.Discount, d.ExpiresAt, d.CreatedBy,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return deal.Deal{}, business.ErrBusinessNotFound
		}
		return deal.Deal{}, fmt.Errorf("failed to create deal: %w", err)
	}

	return scanDeal(q.QueryRow(ctx, dealSelect+` WHERE d.id = $1`, id))
}

func (r *dealRepositoryImpl) ListActive(ctx context.Context, now time.Time) ([]deal.Deal, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, dealSelect+`
	WHERE d.expires_at IS NULL OR d.expires_at >= $1
	ORDER BY d.created_at DESC, d.id DESC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := []deal.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (r *dealRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return deal.ErrDealNotFound
	}
	return nil
}
