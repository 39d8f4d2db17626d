package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type UserServiceImpl struct {
	users user.UserRepository
}

func NewUserService(users user.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID string) (user.ProfileResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return user.NewProfileResponse(u), nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID string, req user.UpdateProfileRequest) (user.ProfileResponse, error) {
	u, err := s.users.UpdateProfile(ctx, userID, req)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return user.NewProfileResponse(u), nil
}

// List pages through every user for the admin console.
func (s *UserServiceImpl) List(ctx context.Context, req pagination.Request) (pagination.Page[user.ProfileResponse], error) {
	page, err := pagination.Paginate(ctx, s.users, req)
	if err != nil {
		return pagination.Page[user.ProfileResponse]{}, err
	}

	items := make([]user.ProfileResponse, len(page.Items))
	for i, u := range page.Items {
		items[i] = user.NewProfileResponse(u)
	}
	return pagination.Page[user.ProfileResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
		PrevCursor: page.PrevCursor,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
	}, nil
}

// SetRole changes another user's role. Admins cannot demote themselves, so
// at least one admin always remains.
func (s *UserServiceImpl) SetRole(ctx context.Context, actorID string, req user.SetRoleRequest) error {
	if actorID == req.UserID {
		return user.ErrCannotChangeOwnRole
	}
	if !req.Role.Valid() {
		return user.ErrInvalidRole
	}
	if err := s.users.UpdateRole(ctx, req.UserID, req.Role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	slog.Info("User role changed", "user_id", req.UserID, "role", req.Role, "by", actorID)
	return nil
}
