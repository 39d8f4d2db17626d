package seed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/deal"
	"github.com/thikabizhub/bizhub-backend/internal/domain/review"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type fakeUsers struct {
	user.UserRepository
	created []user.User
}

func (f *fakeUsers) Create(ctx context.Context, u user.User) (user.User, error) {
	u.ID = fmt.Sprintf("user-%d", len(f.created))
	f.created = append(f.created, u)
	return u, nil
}

type fakeBusinesses struct {
	business.BusinessRepository
	created   []business.Business
	approved  map[string]bool
	refreshed int
}

func (f *fakeBusinesses) Create(ctx context.Context, b business.Business) (business.Business, error) {
	b.ID = fmt.Sprintf("biz-%d", len(f.created))
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeBusinesses) Approve(ctx context.Context, id string, at time.Time) (business.Business, error) {
	if f.approved == nil {
		f.approved = map[string]bool{}
	}
	f.approved[id] = true
	for _, b := range f.created {
		if b.ID == id {
			b.IsApproved = true
			return b, nil
		}
	}
	return business.Business{}, business.ErrBusinessNotFound
}

func (f *fakeBusinesses) RefreshRating(ctx context.Context, id string) (float64, int, error) {
	f.refreshed++
	return 0, 0, nil
}

type fakeReviews struct {
	review.ReviewRepository
	created []review.Review
}

func (f *fakeReviews) Create(ctx context.Context, r review.Review) (review.Review, error) {
	f.created = append(f.created, r)
	return r, nil
}

type fakeDeals struct {
	deal.DealRepository
	created []deal.Deal
}

func (f *fakeDeals) Create(ctx context.Context, d deal.Deal) (deal.Deal, error) {
	f.created = append(f.created, d)
	return d, nil
}

func TestSeeder_Run(t *testing.T) {
	users := &fakeUsers{}
	businesses := &fakeBusinesses{}
	reviews := &fakeReviews{}
	deals := &fakeDeals{}
	s := NewSeeder(users, businesses, reviews, deals)

	summary, err := s.Run(context.Background(), Options{
		Users:         5,
		Businesses:    8,
		Reviews:       30,
		Deals:         3,
		ApprovedRatio: 0.5,
		Seed:          42,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Users)
	assert.Equal(t, 8, summary.Businesses)
	assert.Equal(t, 4, summary.Approved)
	assert.Equal(t, 3, summary.Deals)
	assert.Equal(t, len(reviews.created), summary.Reviews)
	assert.Equal(t, summary.Reviews, businesses.refreshed)

	owners := map[string]string{}
	for _, b := range businesses.created {
		owners[b.ID] = b.OwnerID
		assert.Contains(t, business.Categories, b.Category)
		assert.Contains(t, Counties, b.County)
		assert.True(t, validator.IsValidPhoneNumber(b.Phone), b.Phone)
	}

	seen := map[string]bool{}
	for _, r := range reviews.created {
		assert.True(t, businesses.approved[r.BusinessID], "reviews only land on approved listings")
		assert.NotEqual(t, owners[r.BusinessID], r.UserID)
		assert.False(t, seen[r.BusinessID+r.UserID], "one review per user per business")
		seen[r.BusinessID+r.UserID] = true
		assert.GreaterOrEqual(t, r.Rating, 1)
		assert.LessOrEqual(t, r.Rating, 5)
	}

	for _, u := range users.created {
		require.NotNil(t, u.PasswordHash)
		assert.Equal(t, user.RoleUser, u.Role)
	}
}

func TestSeeder_SameSeedSameData(t *testing.T) {
	run := func() []business.Business {
		businesses := &fakeBusinesses{}
		s := NewSeeder(&fakeUsers{}, businesses, &fakeReviews{}, &fakeDeals{})
		_, err := s.Run(context.Background(), Options{Users: 3, Businesses: 3, Seed: 7})
		require.NoError(t, err)
		return businesses.created
	}

	first, second := run(), run()
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
	}
}
