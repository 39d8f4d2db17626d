package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/review"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
)

const reviewColumns = `id, business_id, user_id, user_name, rating, comment, created_at`

func scanReview(row pgx.Row) (review.Review, error) {
	var rv review.Review
	var rating int16
	err := row.Scan(&rv.ID, &rv.BusinessID, &rv.UserID, &rv.UserName, &rating, &rv.Comment, &rv.CreatedAt)
	rv.Rating = int(rating)
	return rv, err
}

type reviewRepositoryImpl struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) review.ReviewRepository {
	return &reviewRepositoryImpl{db: db}
}

func (r *reviewRepositoryImpl) Create(ctx context.Context, rv review.Review) (review.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reviews (business_id, user_id, user_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reviewColumns

	created, err := scanReview(q.QueryRow(ctx, query, rv.BusinessID, rv.UserID, rv.UserName, rv.Rating, rv.Comment))
	if err != nil {
		if isUniqueViolation(err, "reviews_business_user_key") {
			return review.Review{}, review.ErrAlreadyReviewed
		}
		if isForeignKeyViolation(err) {
			return review.Review{}, business.ErrBusinessNotFound
		}
		return review.Review{}, fmt.Errorf("failed to create review: %w", err)
	}
	return created, nil
}

func (r *reviewRepositoryImpl) ListByBusiness(ctx context.Context, businessID string) ([]review.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE business_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := q.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []review.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
