package proof

import (
	"context"
	"time"
)

type ProofRepository interface {
	Create(ctx context.Context, p Proof) (Proof, error)
	ListApproved(ctx context.Context, limit int) ([]Proof, error)
	ListPending(ctx context.Context) ([]Proof, error)
	Approve(ctx context.Context, id string, at time.Time) (Proof, error)
	// Delete removes the row and returns it so the stored image can be removed.
	Delete(ctx context.Context, id string) (Proof, error)
}
