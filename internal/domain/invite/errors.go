package invite

import "errors"

var (
	ErrInviteNotFound     = errors.New("invite not found")
	ErrInviteExpired      = errors.New("invite has expired")
	ErrAlreadyProcessed   = errors.New("invite has already been processed")
	ErrDuplicateInvite    = errors.New("a pending invite already exists for this email")
	ErrEmailMismatch      = errors.New("this invite was sent to a different email address")
	ErrCannotInviteSelf   = errors.New("you cannot invite yourself")
	ErrInviteCodeTaken    = errors.New("invite code already exists")
	ErrCodeSpaceExhausted = errors.New("could not generate a unique code")
)
