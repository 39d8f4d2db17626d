package proof

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/notification"
	"github.com/thikabizhub/bizhub-backend/internal/domain/proof"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/imaging"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/storage"
)

const (
	keyPrefix     = "proofs"
	approvedLimit = 50
)

type Notifier interface {
	Notify(ctx context.Context, req notification.CreateNotificationRequest) error
}

type ProofServiceImpl struct {
	repo    proof.ProofRepository
	storage storage.FileStorage
	notify  Notifier
	now     func() time.Time
}

func NewProofService(repo proof.ProofRepository, fileStorage storage.FileStorage, notify Notifier) *ProofServiceImpl {
	return &ProofServiceImpl{
		repo:    repo,
		storage: fileStorage,
		notify:  notify,
		now:     time.Now,
	}
}

func newProofResponses(ps []proof.Proof) []proof.ProofResponse {
	out := make([]proof.ProofResponse, len(ps))
	for i, p := range ps {
		out[i] = proof.NewProofResponse(p)
	}
	return out
}

// ListApproved returns the most recent public proofs.
func (s *ProofServiceImpl) ListApproved(ctx context.Context) ([]proof.ProofResponse, error) {
	ps, err := s.repo.ListApproved(ctx, approvedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	return newProofResponses(ps), nil
}

// readImage reads at most MaxImageBytes and shrinks JPEG and PNG photos.
func readImage(r io.Reader, contentType string) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, proof.MaxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, "", proof.ErrImageRequired
	}
	if len(data) > proof.MaxImageBytes {
		return nil, "", proof.ErrImageTooLarge
	}

	if !imaging.Compressible(contentType) {
		return data, contentType, nil
	}
	compressed, err := imaging.Compress(data, imaging.DefaultMaxSize, imaging.DefaultMinSize)
	if err != nil {
		return nil, "", err
	}
	if bytes.Equal(compressed, data) {
		return data, contentType, nil
	}
	return compressed, "image/jpeg", nil
}

// Submit stores the photo and creates a proof awaiting approval.
func (s *ProofServiceImpl) Submit(ctx context.Context, userID string, req proof.SubmitProofRequest) (proof.ProofResponse, error) {
	if _, err := storage.ImageExtension(req.ContentType); err != nil {
		return proof.ProofResponse{}, err
	}
	data, contentType, err := readImage(req.Image, req.ContentType)
	if err != nil {
		return proof.ProofResponse{}, err
	}
	ext, err := storage.ImageExtension(contentType)
	if err != nil {
		return proof.ProofResponse{}, err
	}

	key := storage.NewKey(keyPrefix, userID, ext, s.now())
	if err := s.storage.Upload(ctx, bytes.NewReader(data), key, contentType); err != nil {
		return proof.ProofResponse{}, fmt.Errorf("failed to upload proof image: %w", err)
	}

	created, err := s.repo.Create(ctx, proof.Proof{
		UserID:     userID,
		BusinessID: req.BusinessID,
		ImageKey:   key,
		ImageURL:   s.storage.URL(key),
		Caption:    req.Caption,
	})
	if err != nil {
		s.deleteImage(ctx, key)
		return proof.ProofResponse{}, err
	}

	slog.Info("Proof of visit submitted", "proof_id", created.ID, "business_id", created.BusinessID)
	return proof.NewProofResponse(created), nil
}

func (s *ProofServiceImpl) ListPending(ctx context.Context) ([]proof.ProofResponse, error) {
	ps, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending proofs: %w", err)
	}
	return newProofResponses(ps), nil
}

func (s *ProofServiceImpl) Approve(ctx context.Context, id string) (proof.ProofResponse, error) {
	approved, err := s.repo.Approve(ctx, id, s.now().UTC())
	if err != nil {
		return proof.ProofResponse{}, err
	}

	if s.notify != nil {
		err := s.notify.Notify(context.WithoutCancel(ctx), notification.CreateNotificationRequest{
			RecipientID: approved.UserID,
			Type:        notification.TypeProofApproved,
			Title:       "Proof of visit approved",
			Message:     fmt.Sprintf("Your visit to %s is now public", approved.BusinessName),
			Data: map[string]any{
				"proof_id":    approved.ID,
				"business_id": approved.BusinessID,
			},
		})
		if err != nil {
			slog.Warn("Failed to notify proof author", "proof_id", approved.ID, "error", err)
		}
	}
	return proof.NewProofResponse(approved), nil
}

// Reject deletes the proof and its stored image.
func (s *ProofServiceImpl) Reject(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.deleteImage(ctx, removed.ImageKey)
	slog.Info("Proof of visit rejected", "proof_id", id)
	return nil
}

func (s *ProofServiceImpl) deleteImage(ctx context.Context, key string) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		slog.Warn("Failed to delete proof image", "key", key, "error", err)
	}
}
