package user

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserEmailExists      = errors.New("email already registered")
	ErrReferralCodeTaken    = errors.New("referral code already in use")
	ErrInvalidRole          = errors.New("invalid role")
	ErrCannotChangeOwnRole  = errors.New("admins cannot change their own role")
	ErrAdminPrivilegeNeeded = errors.New("admin privilege required")
)
