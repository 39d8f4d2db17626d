package referral

import "errors"

var (
	ErrInvalidCode     = errors.New("invalid referral code")
	ErrAlreadyReferred = errors.New("you have already been referred")
	ErrSelfReferral    = errors.New("you cannot use your own referral code")
)
