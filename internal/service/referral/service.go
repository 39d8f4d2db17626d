package referral

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/notification"
	"github.com/thikabizhub/bizhub-backend/internal/domain/referral"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/code"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/metrics"
)

const maxCodeAttempts = 10

type CodeGenerator interface {
	Referral() (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, req notification.CreateNotificationRequest) error
}

type Config struct {
	AppURL       string
	RewardAmount int
}

type ReferralServiceImpl struct {
	tx        database.Transactor
	referrals referral.ReferralRepository
	users     user.UserRepository
	codes     CodeGenerator
	notify    Notifier
	cfg       Config
	now       func() time.Time
}

func NewReferralService(
	tx database.Transactor,
	referrals referral.ReferralRepository,
	users user.UserRepository,
	codes CodeGenerator,
	notify Notifier,
	cfg Config,
) *ReferralServiceImpl {
	return &ReferralServiceImpl{
		tx:        tx,
		referrals: referrals,
		users:     users,
		codes:     codes,
		notify:    notify,
		cfg:       cfg,
		now:       time.Now,
	}
}

// GetInfo implements referral.ReferralService.
func (s *ReferralServiceImpl) GetInfo(ctx context.Context, userID string) (referral.ReferralInfoResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return referral.ReferralInfoResponse{}, err
	}

	referralCode := ""
	if u.ReferralCode != nil {
		referralCode = *u.ReferralCode
	} else {
		referralCode, err = s.issueCode(ctx, u.ID)
		if err != nil {
			return referral.ReferralInfoResponse{}, err
		}
	}

	refs, err := s.referrals.ListByReferrer(ctx, u.ID)
	if err != nil {
		return referral.ReferralInfoResponse{}, fmt.Errorf("failed to list referrals: %w", err)
	}

	resp := referral.ReferralInfoResponse{
		ReferralCode: referralCode,
		ReferralLink: s.cfg.AppURL + "/signup?ref=" + referralCode,
		Referrals:    make([]referral.ReferralResponse, 0, len(refs)),
	}
	for _, r := range refs {
		resp.Referrals = append(resp.Referrals, referral.NewReferralResponse(r))
		switch r.Status {
		case referral.StatusCompleted:
			resp.Stats.SuccessfulReferrals++
		case referral.StatusPending:
			resp.Stats.PendingReferrals++
		}
		resp.Stats.TotalRewards += r.RewardAmount
	}
	resp.Stats.TotalReferrals = len(refs)
	return resp, nil
}

// issueCode draws codes until one is free. A concurrent issuance for the same
// user wins and its code is returned instead.
func (s *ReferralServiceImpl) issueCode(ctx context.Context, userID string) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		candidate, err := s.codes.Referral()
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}

		assigned, err := s.users.AssignReferralCode(ctx, userID, candidate)
		if errors.Is(err, user.ErrReferralCodeTaken) {
			slog.Warn("Referral code collision, regenerating", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to assign referral code: %w", err)
		}
		return assigned, nil
	}
	return "", errors.New("could not generate a unique referral code")
}

// Apply implements referral.ReferralService.
func (s *ReferralServiceImpl) Apply(ctx context.Context, referred referral.Referred, referralCode string) (referral.ReferralResponse, error) {
	referralCode = code.NormalizeReferral(referralCode)
	if referralCode == "" {
		return referral.ReferralResponse{}, referral.ErrInvalidCode
	}

	referrer, err := s.users.GetByReferralCode(ctx, referralCode)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return referral.ReferralResponse{}, referral.ErrInvalidCode
		}
		return referral.ReferralResponse{}, fmt.Errorf("failed to look up referral code: %w", err)
	}

	var created referral.Referral
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.referrals.ExistsForReferredUser(txCtx, referred.UserID)
		if err != nil {
			return fmt.Errorf("failed to check existing referral: %w", err)
		}
		if exists {
			return referral.ErrAlreadyReferred
		}
		if referrer.ID == referred.UserID {
			return referral.ErrSelfReferral
		}

		now := s.now()
		created, err = s.referrals.Create(txCtx, referral.Referral{
			ReferrerID:     referrer.ID,
			ReferrerEmail:  referrer.Email,
			ReferredUserID: referred.UserID,
			ReferredEmail:  referred.Email,
			ReferralCode:   referralCode,
			Status:         referral.StatusCompleted,
			RewardAmount:   s.cfg.RewardAmount,
			CreatedAt:      now,
			CompletedAt:    &now,
		})
		if err != nil {
			return err
		}

		return s.users.SetReferredBy(txCtx, referred.UserID, referrer.ID, referralCode)
	})
	if err != nil {
		return referral.ReferralResponse{}, err
	}

	metrics.ReferralsCompletedTotal.Inc()
	s.notifyReferrer(ctx, created)

	return referral.NewReferralResponse(created), nil
}

func (s *ReferralServiceImpl) notifyReferrer(ctx context.Context, r referral.Referral) {
	if s.notify == nil {
		return
	}
	err := s.notify.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID: r.ReferrerID,
		SenderID:    &r.ReferredUserID,
		Type:        notification.TypeReferralCompleted,
		Title:       "Referral completed",
		Message:     fmt.Sprintf("%s signed up with your referral code", r.ReferredEmail),
		Data: map[string]any{
			"referral_id":   r.ID,
			"reward_amount": r.RewardAmount,
		},
	})
	if err != nil {
		slog.Warn("Failed to notify referrer", "referral_id", r.ID, "error", err)
	}
}
