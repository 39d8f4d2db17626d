package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/proof"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
)

const proofSelect = `
	SELECT p.id, p.user_id, p.business_id, b.name, p.image_key, p.image_url, p.caption,
	       p.approved, p.approved_at, p.created_at
	FROM proofs p
	JOIN businesses b ON b.id = p.business_id`

func scanProof(row pgx.Row) (proof.Proof, error) {
	var p proof.Proof
	err := row.Scan(
		&p.ID, &p.UserID, &p.BusinessID, &p.BusinessName, &p.ImageKey, &p.ImageURL,
		&p.Caption, &p.Approved, &p.ApprovedAt, &p.CreatedAt,
	)
	return p, err
}

type proofRepositoryImpl struct {
	db *database.DB
}

func NewProofRepository(db *database.DB) proof.ProofRepository {
	return &proofRepositoryImpl{db: db}
}

func (r *proofRepositoryImpl) getOne(ctx context.Context, id string) (proof.Proof, error) {
	q := GetQuerier(ctx, r.db)
	p, err := scanProof(q.QueryRow(ctx, proofSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return proof.Proof{}, proof.ErrProofNotFound
		}
		return proof.Proof{}, err
	}
	return p, nil
}

func (r *proofRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]proof.Proof, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	proofs := []proof.Proof{}
	for rows.Next() {
		p, err := scanProof(rows)
		if err != nil {
			return nil, err
		}
		proofs = append(proofs, p)
	}
	return proofs, rows.Err()
}

func (r *proofRepositoryImpl) Create(ctx context.Context, p proof.Proof) (proof.Proof, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO proofs (user_id, business_id, image_key, image_url, caption)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		p.UserID, p.BusinessID, p.ImageKey, p.ImageURL, p.Caption,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return proof.Proof{}, business.ErrBusinessNotFound
		}
		return proof.Proof{}, fmt.Errorf("failed to create proof: %w", err)
	}
	return r.getOne(ctx, id)
}

func (r *proofRepositoryImpl) ListApproved(ctx context.Context, limit int) ([]proof.Proof, error) {
	return r.list(ctx, proofSelect+`
	WHERE p.approved = TRUE
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $1`, limit)
}

func (r *proofRepositoryImpl) ListPending(ctx context.Context) ([]proof.Proof, error) {
	return r.list(ctx, proofSelect+`
	WHERE p.approved = FALSE
	ORDER BY p.created_at ASC, p.id ASC`)
}

func (r *proofRepositoryImpl) Approve(ctx context.Context, id string, at time.Time) (proof.Proof, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE proofs SET approved = TRUE, approved_at = $2 WHERE id = $1 AND approved = FALSE`, id, at)
	if err != nil {
		return proof.Proof{}, err
	}
	p, err := r.getOne(ctx, id)
	if err != nil {
		return proof.Proof{}, err
	}
	if tag.RowsAffected() == 0 {
		return proof.Proof{}, proof.ErrAlreadyApproved
	}
	return p, nil
}

func (r *proofRepositoryImpl) Delete(ctx context.Context, id string) (proof.Proof, error) {
	p, err := r.getOne(ctx, id)
	if err != nil {
		return proof.Proof{}, err
	}
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM proofs WHERE id = $1`, id); err != nil {
		return proof.Proof{}, err
	}
	return p, nil
}
