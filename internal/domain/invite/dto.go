package invite

import (
	"strings"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type CreateInviteRequest struct {
	InviteeEmail string  `json:"invitee_email"`
	Type         Type    `json:"type"`
	Message      string  `json:"message,omitempty"`
	BusinessName *string `json:"business_name,omitempty"`
}

func (r *CreateInviteRequest) Validate() error {
	var errs validator.ValidationErrors

	r.InviteeEmail = validator.NormalizeEmail(r.InviteeEmail)
	r.Message = strings.TrimSpace(r.Message)

	if validator.IsEmpty(r.InviteeEmail) {
		errs.Add("invitee_email", "invitee_email is required")
	} else if !validator.IsValidEmail(r.InviteeEmail) {
		errs.Add("invitee_email", "invitee_email must be a valid email address")
	}

	if r.Type == "" {
		r.Type = TypeUser
	}
	if !r.Type.Valid() {
		errs.Add("type", "type must be one of: business, admin, user")
	}

	if len(r.Message) > 500 {
		errs.Add("message", "message must not exceed 500 characters")
	}

	if r.BusinessName != nil {
		name := strings.TrimSpace(*r.BusinessName)
		if name == "" {
			r.BusinessName = nil
		} else {
			r.BusinessName = &name
		}
	}
	if r.Type == TypeBusiness && r.BusinessName == nil {
		errs.Add("business_name", "business_name is required for business invites")
	}

	return errs.Err()
}

// Inviter identifies the authenticated user creating an invite.
type Inviter struct {
	UserID string
	Email  string
}

// Acceptor identifies the authenticated user accepting an invite.
type Acceptor struct {
	UserID string
	Email  string
}

type InviteResponse struct {
	ID           string     `json:"id"`
	InviterID    string     `json:"inviter_id"`
	InviterEmail string     `json:"inviter_email"`
	InviterName  string     `json:"inviter_name"`
	InviteeEmail string     `json:"invitee_email"`
	Type         Type       `json:"type"`
	BusinessName *string    `json:"business_name,omitempty"`
	Message      string     `json:"message,omitempty"`
	InviteCode   string     `json:"invite_code"`
	Status       Status     `json:"status"`
	Expired      bool       `json:"expired"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	AcceptedBy   *string    `json:"accepted_by,omitempty"`
}

func NewInviteResponse(i Invite, now time.Time) InviteResponse {
	return InviteResponse{
		ID:           i.ID,
		InviterID:    i.InviterID,
		InviterEmail: i.InviterEmail,
		InviterName:  i.InviterName,
		InviteeEmail: i.InviteeEmail,
		Type:         i.Type,
		BusinessName: i.BusinessName,
		Message:      i.Message,
		InviteCode:   i.InviteCode,
		Status:       i.Status,
		Expired:      i.IsPending() && i.IsExpired(now),
		CreatedAt:    i.CreatedAt,
		ExpiresAt:    i.ExpiresAt,
		AcceptedAt:   i.AcceptedAt,
		AcceptedBy:   i.AcceptedBy,
	}
}

type CreateInviteResponse struct {
	ID         string    `json:"id"`
	InviteCode string    `json:"invite_code"`
	InviteLink string    `json:"invite_link"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// InviteDetailsResponse is what an unauthenticated visitor of an invite link sees.
type InviteDetailsResponse struct {
	InviterName  string    `json:"inviter_name"`
	InviteeEmail string    `json:"invitee_email"`
	Type         Type      `json:"type"`
	BusinessName *string   `json:"business_name,omitempty"`
	Message      string    `json:"message,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type InviteStats struct {
	TotalSent int `json:"total_sent"`
	Accepted  int `json:"accepted"`
	Pending   int `json:"pending"`
}

type InviteListResponse struct {
	Sent     []InviteResponse `json:"sent"`
	Received []InviteResponse `json:"received"`
	Stats    InviteStats      `json:"stats"`
}

type AcceptInviteResponse struct {
	Invite      InviteResponse `json:"invite"`
	RoleGranted bool           `json:"role_granted"`
}
