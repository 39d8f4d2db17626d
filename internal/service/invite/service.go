package invite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/invite"
	"github.com/thikabizhub/bizhub-backend/internal/domain/notification"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/email"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/metrics"
)

// maxCodeAttempts bounds regeneration after invite code collisions.
const maxCodeAttempts = 10

type CodeGenerator interface {
	Invite() (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, req notification.CreateNotificationRequest) error
}

type Config struct {
	AppURL string
	TTL    time.Duration
}

type InviteServiceImpl struct {
	tx      database.Transactor
	invites invite.InviteRepository
	users   user.UserRepository
	codes   CodeGenerator
	mailer  email.EmailService
	notify  Notifier
	cfg     Config
	now     func() time.Time
	// async runs best-effort side effects off the request path.
	async func(func())
}

func NewInviteService(
	tx database.Transactor,
	invites invite.InviteRepository,
	users user.UserRepository,
	codes CodeGenerator,
	mailer email.EmailService,
	notify Notifier,
	cfg Config,
) *InviteServiceImpl {
	if cfg.TTL == 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	return &InviteServiceImpl{
		tx:      tx,
		invites: invites,
		users:   users,
		codes:   codes,
		mailer:  mailer,
		notify:  notify,
		cfg:     cfg,
		now:     time.Now,
		async:   func(f func()) { go f() },
	}
}

// Create implements invite.InviteService.
func (s *InviteServiceImpl) Create(ctx context.Context, inviter invite.Inviter, req invite.CreateInviteRequest) (invite.CreateInviteResponse, error) {
	inviterData, err := s.users.GetByID(ctx, inviter.UserID)
	if err != nil {
		return invite.CreateInviteResponse{}, fmt.Errorf("failed to get inviter: %w", err)
	}
	if strings.EqualFold(inviterData.Email, req.InviteeEmail) {
		return invite.CreateInviteResponse{}, invite.ErrCannotInviteSelf
	}

	now := s.now()
	var created invite.Invite

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.invites.LockPending(txCtx, inviterData.ID, req.InviteeEmail, req.Type); err != nil {
			return err
		}

		exists, err := s.invites.ExistsPending(txCtx, inviterData.ID, req.InviteeEmail, req.Type, now)
		if err != nil {
			return fmt.Errorf("failed to check pending invites: %w", err)
		}
		if exists {
			return invite.ErrDuplicateInvite
		}

		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			inviteCode, err := s.codes.Invite()
			if err != nil {
				return fmt.Errorf("failed to generate invite code: %w", err)
			}

			created, err = s.invites.Create(txCtx, invite.Invite{
				InviterID:    inviterData.ID,
				InviterEmail: inviterData.Email,
				InviterName:  inviterData.Name(),
				InviteeEmail: req.InviteeEmail,
				Type:         req.Type,
				BusinessName: req.BusinessName,
				Message:      req.Message,
				InviteCode:   inviteCode,
				Status:       invite.StatusPending,
				CreatedAt:    now,
				ExpiresAt:    now.Add(s.cfg.TTL),
			})
			if errors.Is(err, invite.ErrInviteCodeTaken) {
				slog.Warn("Invite code collision, regenerating", "attempt", attempt+1)
				continue
			}
			return err
		}
		return invite.ErrCodeSpaceExhausted
	})
	if err != nil {
		return invite.CreateInviteResponse{}, err
	}

	metrics.InvitesCreatedTotal.WithLabelValues(string(created.Type)).Inc()

	link := invite.Link(s.cfg.AppURL, created.InviteCode)
	s.sendInviteEmail(ctx, created, link)

	return invite.CreateInviteResponse{
		ID:         created.ID,
		InviteCode: created.InviteCode,
		InviteLink: link,
		ExpiresAt:  created.ExpiresAt,
	}, nil
}

func (s *InviteServiceImpl) sendInviteEmail(ctx context.Context, inv invite.Invite, link string) {
	if s.mailer == nil {
		return
	}
	msg := email.InviteMessage{
		To:          inv.InviteeEmail,
		InviterName: inv.InviterName,
		InviteType:  string(inv.Type),
		Message:     inv.Message,
		Link:        link,
		ExpiresAt:   inv.ExpiresAt,
	}
	if inv.BusinessName != nil {
		msg.BusinessName = *inv.BusinessName
	}

	bg := context.WithoutCancel(ctx)
	s.async(func() {
		if err := s.mailer.SendInvite(bg, msg); err != nil {
			slog.Warn("Failed to send invite email", "invite_id", inv.ID, "error", err)
		}
	})
}

// checkUsable applies the acceptance preconditions that do not depend on the caller.
func (s *InviteServiceImpl) checkUsable(inv invite.Invite) error {
	if inv.IsExpired(s.now()) {
		return invite.ErrInviteExpired
	}
	if !inv.IsPending() {
		return invite.ErrAlreadyProcessed
	}
	return nil
}

// GetDetails implements invite.InviteService.
func (s *InviteServiceImpl) GetDetails(ctx context.Context, inviteCode string) (invite.InviteDetailsResponse, error) {
	inv, err := s.invites.GetByCode(ctx, inviteCode)
	if err != nil {
		return invite.InviteDetailsResponse{}, err
	}
	if err := s.checkUsable(inv); err != nil {
		return invite.InviteDetailsResponse{}, err
	}

	return invite.InviteDetailsResponse{
		InviterName:  inv.InviterName,
		InviteeEmail: inv.InviteeEmail,
		Type:         inv.Type,
		BusinessName: inv.BusinessName,
		Message:      inv.Message,
		ExpiresAt:    inv.ExpiresAt,
	}, nil
}

// Accept implements invite.InviteService.
func (s *InviteServiceImpl) Accept(ctx context.Context, inviteCode string, acceptor invite.Acceptor) (invite.AcceptInviteResponse, error) {
	var accepted invite.Invite
	var roleGranted bool

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		inv, err := s.invites.GetByCodeForUpdate(txCtx, inviteCode)
		if err != nil {
			return err
		}
		if err := s.checkUsable(inv); err != nil {
			return err
		}
		if !strings.EqualFold(strings.TrimSpace(acceptor.Email), inv.InviteeEmail) {
			return invite.ErrEmailMismatch
		}

		now := s.now()
		accepted, err = s.invites.MarkAccepted(txCtx, inv.ID, acceptor.UserID, now)
		if err != nil {
			return err
		}

		roleGranted, err = s.applyInviteEffect(txCtx, accepted, acceptor, now)
		return err
	})
	if err != nil {
		return invite.AcceptInviteResponse{}, err
	}

	metrics.InvitesAcceptedTotal.WithLabelValues(string(accepted.Type)).Inc()
	s.notifyInviter(ctx, accepted, acceptor)

	return invite.AcceptInviteResponse{
		Invite:      invite.NewInviteResponse(accepted, s.now()),
		RoleGranted: roleGranted,
	}, nil
}

// applyInviteEffect updates the acceptor according to the invite type and
// reports whether a business or admin role was granted.
func (s *InviteServiceImpl) applyInviteEffect(ctx context.Context, inv invite.Invite, acceptor invite.Acceptor, now time.Time) (bool, error) {
	switch inv.Type {
	case invite.TypeBusiness:
		businessName := ""
		if inv.BusinessName != nil {
			businessName = *inv.BusinessName
		}
		if err := s.users.GrantBusinessRole(ctx, acceptor.UserID, businessName, now); err != nil {
			return false, fmt.Errorf("failed to grant business role: %w", err)
		}
		return true, nil

	case invite.TypeAdmin:
		// The inviter's role is re-read so a demoted inviter cannot grant admin.
		inviter, err := s.users.GetByID(ctx, inv.InviterID)
		if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return false, fmt.Errorf("failed to get inviter: %w", err)
		}
		if err != nil || !inviter.IsAdmin() {
			slog.Warn("Admin invite accepted without grant, inviter is not an admin",
				"invite_id", inv.ID, "inviter_id", inv.InviterID)
			return false, nil
		}
		if err := s.users.UpdateRole(ctx, acceptor.UserID, user.RoleAdmin); err != nil {
			return false, fmt.Errorf("failed to grant admin role: %w", err)
		}
		return true, nil

	default:
		if err := s.users.MarkJoinedViaInvite(ctx, acceptor.UserID, inv.InviterID); err != nil {
			return false, fmt.Errorf("failed to mark joined via invite: %w", err)
		}
		return false, nil
	}
}

func (s *InviteServiceImpl) notifyInviter(ctx context.Context, inv invite.Invite, acceptor invite.Acceptor) {
	if s.notify == nil {
		return
	}
	err := s.notify.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID: inv.InviterID,
		SenderID:    &acceptor.UserID,
		Type:        notification.TypeInviteAccepted,
		Title:       "Invite accepted",
		Message:     fmt.Sprintf("%s accepted your %s invite", inv.InviteeEmail, inv.Type),
		Data: map[string]any{
			"invite_id":   inv.ID,
			"invite_type": string(inv.Type),
		},
	})
	if err != nil {
		slog.Warn("Failed to notify inviter", "invite_id", inv.ID, "error", err)
	}
}

// List implements invite.InviteService.
func (s *InviteServiceImpl) List(ctx context.Context, userID, userEmail string) (invite.InviteListResponse, error) {
	sent, err := s.invites.ListByInviter(ctx, userID)
	if err != nil {
		return invite.InviteListResponse{}, fmt.Errorf("failed to list sent invites: %w", err)
	}
	received, err := s.invites.ListByInviteeEmail(ctx, strings.ToLower(strings.TrimSpace(userEmail)))
	if err != nil {
		return invite.InviteListResponse{}, fmt.Errorf("failed to list received invites: %w", err)
	}

	now := s.now()
	resp := invite.InviteListResponse{
		Sent:     make([]invite.InviteResponse, 0, len(sent)),
		Received: make([]invite.InviteResponse, 0, len(received)),
	}
	for _, inv := range sent {
		resp.Sent = append(resp.Sent, invite.NewInviteResponse(inv, now))
		switch {
		case inv.Status == invite.StatusAccepted:
			resp.Stats.Accepted++
		case !inv.IsExpired(now):
			resp.Stats.Pending++
		}
	}
	resp.Stats.TotalSent = len(sent)
	for _, inv := range received {
		resp.Received = append(resp.Received, invite.NewInviteResponse(inv, now))
	}
	return resp, nil
}
