package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/geo"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

const businessColumns = `id, owner_id, name, description, category, county, town, address,
	latitude, longitude, phone, email, whatsapp, website, images, is_approved, is_premium,
	views, rating, review_count, approved_at, created_at, updated_at`

var businessKeyset = keyset{
	from:    "businesses",
	selects: businessColumns,
	idExpr:  "id",
	columns: map[string]column{
		"created_at":  {expr: "created_at", pgType: "timestamptz", orderable: true},
		"name":        {expr: "name", pgType: "text", orderable: true},
		"rating":      {expr: "rating", pgType: "float8", orderable: true},
		"views":       {expr: "views", pgType: "int4", orderable: true},
		"category":    {expr: "category", pgType: "text"},
		"county":      {expr: "county", pgType: "text"},
		"is_approved": {expr: "is_approved", pgType: "bool"},
		"owner_id":    {expr: "owner_id", pgType: "uuid"},
	},
}

func scanBusiness(row pgx.Row) (business.Business, error) {
	var b business.Business
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Category, &b.County, &b.Town, &b.Address,
		&b.Latitude, &b.Longitude, &b.Phone, &b.Email, &b.WhatsApp, &b.Website, &b.Images,
		&b.IsApproved, &b.IsPremium, &b.Views, &b.Rating, &b.ReviewCount,
		&b.ApprovedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

type businessRepositoryImpl struct {
	db *database.DB
}

func NewBusinessRepository(db *database.DB) business.BusinessRepository {
	return &businessRepositoryImpl{db: db}
}

func (r *businessRepositoryImpl) getOne(ctx context.Context, query string, args ...any) (business.Business, error) {
	q := GetQuerier(ctx, r.db)
	b, err := scanBusiness(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return business.Business{}, business.ErrBusinessNotFound
		}
		return business.Business{}, err
	}
	return b, nil
}

func (r *businessRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]business.Business, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []business.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *businessRepositoryImpl) Create(ctx context.Context, b business.Business) (business.Business, error) {
	if b.Images == nil {
		b.Images = []string{}
	}

	query := `
		INSERT INTO businesses (
			owner_id, name, description, category, county, town, address,
			latitude, longitude, phone, email, whatsapp, website, images
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + businessColumns

	created, err := r.getOne(ctx, query,
		b.OwnerID, b.Name, b.Description, b.Category, b.County, b.Town, b.Address,
		b.Latitude, b.Longitude, b.Phone, b.Email, b.WhatsApp, b.Website, b.Images,
	)
	if err != nil {
		return business.Business{}, fmt.Errorf("failed to create business: %w", err)
	}
	return created, nil
}

func (r *businessRepositoryImpl) GetByID(ctx context.Context, id string) (business.Business, error) {
	return r.getOne(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id)
}

func (r *businessRepositoryImpl) IncrementViews(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE businesses SET views = views + 1 WHERE id = $1`, id)
	return err
}

func (r *businessRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]business.Business, error) {
	return r.list(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`, ownerID)
}

func (r *businessRepositoryImpl) ListPending(ctx context.Context) ([]business.Business, error) {
	return r.list(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE is_approved = FALSE
		ORDER BY created_at ASC, id ASC`)
}

func (r *businessRepositoryImpl) ListApprovedWithin(ctx context.Context, box geo.Box) ([]business.Business, error) {
	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE is_approved = TRUE
		  AND latitude BETWEEN $1 AND $2
		  AND longitude IS NOT NULL`
	args := []any{box.MinLat, box.MaxLat}
	if !box.Wraps() {
		query += ` AND longitude BETWEEN $3 AND $4`
		args = append(args, box.MinLng, box.MaxLng)
	}
	return r.list(ctx, query, args...)
}

func (r *businessRepositoryImpl) Approve(ctx context.Context, id string, at time.Time) (business.Business, error) {
	b, err := r.getOne(ctx, `
		UPDATE businesses
		SET is_approved = TRUE, approved_at = $2, updated_at = $2
		WHERE id = $1 AND is_approved = FALSE
		RETURNING `+businessColumns, id, at)
	if errors.Is(err, business.ErrBusinessNotFound) {
		// Distinguish a missing row from one that was already approved.
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return business.Business{}, business.ErrAlreadyApproved
		}
	}
	return b, err
}

func (r *businessRepositoryImpl) Delete(ctx context.Context, id string) (business.Business, error) {
	return r.getOne(ctx, `DELETE FROM businesses WHERE id = $1 RETURNING `+businessColumns, id)
}

func (r *businessRepositoryImpl) AddImage(ctx context.Context, id, url string) (business.Business, error) {
	b, err := r.getOne(ctx, `
		UPDATE businesses
		SET images = array_append(images, $2), updated_at = NOW()
		WHERE id = $1 AND cardinality(images) < $3
		RETURNING `+businessColumns, id, url, business.MaxImages)
	if errors.Is(err, business.ErrBusinessNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return business.Business{}, business.ErrTooManyImages
		}
	}
	return b, err
}

func (r *businessRepositoryImpl) RefreshRating(ctx context.Context, id string) (float64, int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE businesses b
		SET rating = s.avg_rating, review_count = s.total, updated_at = NOW()
		FROM (
			SELECT COALESCE(AVG(rating), 0)::float8 AS avg_rating, COUNT(*)::int4 AS total
			FROM reviews
			WHERE business_id = $1
		) s
		WHERE b.id = $1
		RETURNING b.rating, b.review_count
	`
	var rating float64
	var count int
	if err := q.QueryRow(ctx, query, id).Scan(&rating, &count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, business.ErrBusinessNotFound
		}
		return 0, 0, err
	}
	return rating, count, nil
}

func (r *businessRepositoryImpl) ToggleFavorite(ctx context.Context, userID, businessID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND business_id = $2`, userID, businessID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = q.Exec(ctx, `
		INSERT INTO favorites (user_id, business_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, businessID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, business.ErrBusinessNotFound
		}
		return false, err
	}
	return true, nil
}

func (r *businessRepositoryImpl) ListFavorites(ctx context.Context, userID string) ([]business.Business, error) {
	return r.list(ctx, `
		SELECT `+prefixed("b", businessColumns)+`
		FROM favorites f
		JOIN businesses b ON b.id = f.business_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`, userID)
}

func (r *businessRepositoryImpl) Fetch(ctx context.Context, q pagination.Query) ([]business.Business, error) {
	return fetchPage(ctx, GetQuerier(ctx, r.db), businessKeyset, q, scanBusiness)
}

func (r *businessRepositoryImpl) Count(ctx context.Context, filters []pagination.Filter) (int64, error) {
	return countRows(ctx, GetQuerier(ctx, r.db), businessKeyset, filters)
}

func (r *businessRepositoryImpl) CursorOf(b business.Business, orderField string) pagination.Cursor {
	switch orderField {
	case "name":
		return pagination.Cursor{Value: b.Name, ID: b.ID}
	case "rating":
		return pagination.Cursor{Value: floatCursor(b.Rating), ID: b.ID}
	case "views":
		return pagination.Cursor{Value: intCursor(b.Views), ID: b.ID}
	default:
		return pagination.Cursor{Value: timeCursor(b.CreatedAt), ID: b.ID}
	}
}
