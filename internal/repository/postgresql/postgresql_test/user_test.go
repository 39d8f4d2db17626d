package postgresql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
	"github.com/thikabizhub/bizhub-backend/internal/repository/postgresql"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewUserRepository(db)
	ctx := context.Background()

	created := createUser(t, db, "Wanjiru@Example.com")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "wanjiru@example.com", created.Email)
	assert.Equal(t, user.RoleUser, created.Role)

	t.Run("duplicate email ignores case", func(t *testing.T) {
		_, err := repo.Create(ctx, user.User{Email: "WANJIRU@example.com", Role: user.RoleUser})
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("lookup by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "wanjiru@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "00000000-0000-4000-8000-000000000000")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	count, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUserRepository_UpdateRole(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewUserRepository(db)
	ctx := context.Background()

	u := createUser(t, db, "kamau@example.com")
	require.NoError(t, repo.UpdateRole(ctx, u.ID, user.RoleAdmin))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	err = repo.UpdateRole(ctx, "00000000-0000-4000-8000-000000000000", user.RoleAdmin)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_AssignReferralCode(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewUserRepository(db)
	ctx := context.Background()

	a := createUser(t, db, "a@example.com")
	b := createUser(t, db, "b@example.com")

	code, err := repo.AssignReferralCode(ctx, a.ID, "THIKA001")
	require.NoError(t, err)
	assert.Equal(t, "THIKA001", code)

	// A second assignment keeps the first code.
	code, err = repo.AssignReferralCode(ctx, a.ID, "THIKA002")
	require.NoError(t, err)
	assert.Equal(t, "THIKA001", code)

	_, err = repo.AssignReferralCode(ctx, b.ID, "THIKA001")
	assert.ErrorIs(t, err, user.ErrReferralCodeTaken)

	owner, err := repo.GetByReferralCode(ctx, "THIKA001")
	require.NoError(t, err)
	assert.Equal(t, a.ID, owner.ID)
}

func TestUserRepository_Paginate(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewUserRepository(db)
	ctx := context.Background()

	for _, email := range []string{"u1@example.com", "u2@example.com", "u3@example.com", "u4@example.com", "u5@example.com"} {
		createUser(t, db, email)
	}

	req := pagination.Request{PageSize: 2, OrderField: "email", Direction: pagination.Asc}
	seen := []string{}
	for {
		page, err := pagination.Paginate(ctx, repo, req)
		require.NoError(t, err)
		for _, u := range page.Items {
			seen = append(seen, u.Email)
		}
		if !page.HasNext {
			break
		}
		req.After = page.NextCursor
	}
	assert.Equal(t, []string{"u1@example.com", "u2@example.com", "u3@example.com", "u4@example.com", "u5@example.com"}, seen)
}
