package postgresql_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/review"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/geo"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
	"github.com/thikabizhub/bizhub-backend/internal/repository/postgresql"
)

func TestBusinessRepository_Approve(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewBusinessRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	b := createBusiness(t, db, owner.ID, "Mama Njeri Salon")
	assert.False(t, b.IsApproved)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := repo.Approve(ctx, b.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = repo.Approve(ctx, b.ID, time.Now())
	assert.ErrorIs(t, err, business.ErrAlreadyApproved)

	_, err = repo.Approve(ctx, "00000000-0000-4000-8000-000000000000", time.Now())
	assert.ErrorIs(t, err, business.ErrBusinessNotFound)
}

func TestBusinessRepository_AddImage(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewBusinessRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	b := createBusiness(t, db, owner.ID, "Cyber Point")

	for i := range business.MaxImages {
		updated, err := repo.AddImage(ctx, b.ID, fmt.Sprintf("https://cdn.example.com/%d.jpg", i))
		require.NoError(t, err)
		assert.Len(t, updated.Images, i+1)
	}

	_, err := repo.AddImage(ctx, b.ID, "https://cdn.example.com/extra.jpg")
	assert.ErrorIs(t, err, business.ErrTooManyImages)
}

func TestBusinessRepository_ToggleFavorite(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewBusinessRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	fan := createUser(t, db, "fan@example.com")
	b := createBusiness(t, db, owner.ID, "Boda Express")

	added, err := repo.ToggleFavorite(ctx, fan.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, added)

	favs, err := repo.ListFavorites(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, b.ID, favs[0].ID)

	added, err = repo.ToggleFavorite(ctx, fan.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = repo.ToggleFavorite(ctx, fan.ID, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, business.ErrBusinessNotFound)
}

func TestBusinessRepository_RefreshRating(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewBusinessRepository(db)
	reviews := postgresql.NewReviewRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	b := createBusiness(t, db, owner.ID, "Kienyeji Hotel")

	for i, rating := range []int{5, 4} {
		u := createUser(t, db, fmt.Sprintf("reviewer%d@example.com", i))
		_, err := reviews.Create(ctx, review.Review{
			BusinessID: b.ID,
			UserID:     u.ID,
			UserName:   u.DisplayName,
			Rating:     rating,
			Comment:    "Good service",
		})
		require.NoError(t, err)

		if i == 0 {
			_, err = reviews.Create(ctx, review.Review{BusinessID: b.ID, UserID: u.ID, Rating: 1})
			assert.ErrorIs(t, err, review.ErrAlreadyReviewed)
		}
	}

	rating, count, err := repo.RefreshRating(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, rating, 0.001)
	assert.Equal(t, 2, count)

	listed, err := reviews.ListByBusiness(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestBusinessRepository_PaginateByName(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewBusinessRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	names := []string{"Alpha Salon", "Beta Cyber", "Gamma Foods", "Delta Tutors", "Epsilon Boda"}
	for _, n := range names {
		b := createBusiness(t, db, owner.ID, n)
		_, err := repo.Approve(ctx, b.ID, time.Now())
		require.NoError(t, err)
	}
	createBusiness(t, db, owner.ID, "Aaa Unapproved")

	req := pagination.Request{
		PageSize:   2,
		OrderField: "name",
		Direction:  pagination.Asc,
		Filters:    []pagination.Filter{pagination.Eq("is_approved", true)},
	}

	first, err := pagination.Paginate(ctx, repo, req)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "Alpha Salon", first.Items[0].Name)
	assert.Equal(t, "Beta Cyber", first.Items[1].Name)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	req.After = first.NextCursor
	second, err := pagination.Paginate(ctx, repo, req)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Equal(t, "Delta Tutors", second.Items[0].Name)
	assert.Equal(t, "Epsilon Boda", second.Items[1].Name)
	assert.True(t, second.HasPrev)

	req.After = ""
	req.Before = second.PrevCursor
	back, err := pagination.Paginate(ctx, repo, req)
	require.NoError(t, err)
	require.NotEmpty(t, back.Items)
	assert.Equal(t, "Beta Cyber", back.Items[len(back.Items)-1].Name)

	total, err := pagination.TotalCount(ctx, repo, req.Filters)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
}

func TestBusinessRepository_PrefixSearch(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewBusinessRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	for _, n := range []string{"Salon Bella", "Salon Amani", "Sala Cafe", "Cyber One"} {
		createBusiness(t, db, owner.ID, n)
	}

	page, err := pagination.Search(ctx, repo, "name", "Salon", pagination.Request{PageSize: 10, OrderField: "name", Direction: pagination.Asc})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Salon Amani", page.Items[0].Name)
	assert.Equal(t, "Salon Bella", page.Items[1].Name)
}

func TestBusinessRepository_ListApprovedWithin(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewBusinessRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	place := func(name string, lat, lng float64, approve bool) {
		b, err := repo.Create(ctx, business.Business{
			OwnerID: owner.ID, Name: name, Category: "Tutor", County: "Kiambu",
			Latitude: &lat, Longitude: &lng,
		})
		require.NoError(t, err)
		if approve {
			_, err = repo.Approve(ctx, b.ID, time.Now())
			require.NoError(t, err)
		}
	}
	place("Thika Tutors", -1.0390, 37.0830, true)
	place("Hidden Tutors", -1.0391, 37.0831, false)
	place("Nairobi Tutors", -1.2921, 36.8219, true)
	createBusiness(t, db, owner.ID, "No Location")

	box := geo.BoundingBox(geo.Point{Lat: -1.0333, Lng: 37.0693}, 5000)
	got, err := repo.ListApprovedWithin(ctx, box)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Thika Tutors", got[0].Name)
}
