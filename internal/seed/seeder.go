package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/deal"
	"github.com/thikabizhub/bizhub-backend/internal/domain/review"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Counties around Thika that seeded listings are spread over.
var Counties = []string{"Kiambu", "Nairobi", "Murang'a", "Machakos"}

var towns = map[string][]string{
	"Kiambu":   {"Thika", "Juja", "Ruiru", "Gatundu"},
	"Nairobi":  {"Westlands", "Kasarani", "Embakasi"},
	"Murang'a": {"Kenol", "Maragua"},
	"Machakos": {"Athi River", "Mlolongo"},
}

type Options struct {
	Users      int
	Businesses int
	Reviews    int
	Deals      int
	// ApprovedRatio is the share of businesses seeded as approved.
	ApprovedRatio float64
	Seed          uint64
}

func (o Options) withDefaults() Options {
	if o.Users <= 0 {
		o.Users = 20
	}
	if o.Businesses <= 0 {
		o.Businesses = 40
	}
	if o.Reviews < 0 {
		o.Reviews = 0
	}
	if o.ApprovedRatio <= 0 || o.ApprovedRatio > 1 {
		o.ApprovedRatio = 0.75
	}
	return o
}

// Summary counts what a run created.
type Summary struct {
	Users      int
	Businesses int
	Approved   int
	Reviews    int
	Deals      int
}

// Seeder fills a development database with realistic looking data.
type Seeder struct {
	users      user.UserRepository
	businesses business.BusinessRepository
	reviews    review.ReviewRepository
	deals      deal.DealRepository
	faker      *gofakeit.Faker
	now        func() time.Time
}

func NewSeeder(users user.UserRepository, businesses business.BusinessRepository, reviews review.ReviewRepository, deals deal.DealRepository) *Seeder {
	return &Seeder{
		users:      users,
		businesses: businesses,
		reviews:    reviews,
		deals:      deals,
		now:        time.Now,
	}
}

func (s *Seeder) phone() string {
	return fmt.Sprintf("07%08d", s.faker.Number(0, 99999999))
}

// Run seeds opts.Users accounts, opts.Businesses listings with reviews and a
// handful of deals on approved listings.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	if opts.Seed == 0 {
		opts.Seed = uint64(s.now().UnixNano())
	}
	s.faker = gofakeit.New(opts.Seed)

	var summary Summary

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return summary, fmt.Errorf("failed to hash seed password: %w", err)
	}
	passwordHash := string(hash)

	seededUsers := make([]user.User, 0, opts.Users)
	for range opts.Users {
		u, err := s.users.Create(ctx, user.User{
			Email:        s.faker.Email(),
			PasswordHash: &passwordHash,
			DisplayName:  s.faker.Name(),
			Role:         user.RoleUser,
		})
		if errors.Is(err, user.ErrUserEmailExists) {
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("failed to seed user: %w", err)
		}
		seededUsers = append(seededUsers, u)
	}
	summary.Users = len(seededUsers)
	if len(seededUsers) == 0 {
		return summary, nil
	}

	approved := make([]business.Business, 0, opts.Businesses)
	for i := range opts.Businesses {
		owner := seededUsers[s.faker.Number(0, len(seededUsers)-1)]
		county := s.faker.RandomString(Counties)
		lat := s.faker.Float64Range(-1.10, -0.95)
		lng := s.faker.Float64Range(36.95, 37.15)

		b, err := s.businesses.Create(ctx, business.Business{
			OwnerID:     owner.ID,
			Name:        s.faker.Company(),
			Description: s.faker.HipsterSentence(),
			Category:    s.faker.RandomString(business.Categories),
			County:      county,
			Town:        s.faker.RandomString(towns[county]),
			Address:     s.faker.Street(),
			Latitude:    &lat,
			Longitude:   &lng,
			Phone:       s.phone(),
			WhatsApp:    s.phone(),
		})
		if err != nil {
			return summary, fmt.Errorf("failed to seed business: %w", err)
		}
		summary.Businesses++

		if float64(i) < float64(opts.Businesses)*opts.ApprovedRatio {
			b, err = s.businesses.Approve(ctx, b.ID, s.now())
			if err != nil {
				return summary, fmt.Errorf("failed to approve seeded business: %w", err)
			}
			approved = append(approved, b)
		}
	}
	summary.Approved = len(approved)
	if len(approved) == 0 {
		return summary, nil
	}

	reviewed := make(map[string]bool)
	for range opts.Reviews {
		b := approved[s.faker.Number(0, len(approved)-1)]
		author := seededUsers[s.faker.Number(0, len(seededUsers)-1)]
		if author.ID == b.OwnerID || reviewed[b.ID+author.ID] {
			continue
		}
		reviewed[b.ID+author.ID] = true

		if _, err := s.reviews.Create(ctx, review.Review{
			BusinessID: b.ID,
			UserID:     author.ID,
			UserName:   author.DisplayName,
			Rating:     s.faker.Number(1, 5),
			Comment:    s.faker.HipsterSentence(),
		}); err != nil {
			if errors.Is(err, review.ErrAlreadyReviewed) {
				continue
			}
			return summary, fmt.Errorf("failed to seed review: %w", err)
		}
		if _, _, err := s.businesses.RefreshRating(ctx, b.ID); err != nil {
			return summary, fmt.Errorf("failed to refresh rating: %w", err)
		}
		summary.Reviews++
	}

	for i := range opts.Deals {
		b := approved[i%len(approved)]
		var expires *time.Time
		if s.faker.Bool() {
			at := s.now().Add(time.Duration(s.faker.Number(1, 30)) * 24 * time.Hour)
			expires = &at
		}
		if _, err := s.deals.Create(ctx, deal.Deal{
			BusinessID:  b.ID,
			Title:       fmt.Sprintf("%d%% off at %s", s.faker.Number(5, 50), b.Name),
			Description: s.faker.HipsterSentence(),
			Discount:    fmt.Sprintf("%d%%", s.faker.Number(5, 50)),
			ExpiresAt:   expires,
		}); err != nil {
			return summary, fmt.Errorf("failed to seed deal: %w", err)
		}
		summary.Deals++
	}

	slog.Info("Seed complete",
		"users", summary.Users,
		"businesses", summary.Businesses,
		"approved", summary.Approved,
		"reviews", summary.Reviews,
		"deals", summary.Deals,
	)
	return summary, nil
}
