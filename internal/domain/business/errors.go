package business

import "errors"

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrNotOwner         = errors.New("only the owner can change this business")
	ErrTooManyImages    = errors.New("business already has the maximum number of images")
	ErrAlreadyApproved  = errors.New("business is already approved")
)
