package invite

import "time"

type Type string

const (
	TypeBusiness Type = "business"
	TypeAdmin    Type = "admin"
	TypeUser     Type = "user"
)

func (t Type) Valid() bool {
	switch t {
	case TypeBusiness, TypeAdmin, TypeUser:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Invite moves from pending to accepted once. Expiry is never stored; it is
// derived from ExpiresAt whenever the invite is read.
type Invite struct {
	ID           string
	InviterID    string
	InviterEmail string
	InviterName  string
	InviteeEmail string
	Type         Type
	BusinessName *string
	Message      string
	InviteCode   string
	Status       Status
	CreatedAt    time.Time
	ExpiresAt    time.Time
	AcceptedAt   *time.Time
	AcceptedBy   *string
}

func (i *Invite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

func (i *Invite) IsPending() bool {
	return i.Status == StatusPending
}

// Link is the URL the invitee opens to accept.
func Link(appURL, code string) string {
	return appURL + "/invite/" + code
}
