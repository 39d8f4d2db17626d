package proof

import "errors"

var (
	ErrProofNotFound   = errors.New("proof of visit not found")
	ErrImageRequired   = errors.New("image is required")
	ErrImageTooLarge   = errors.New("image exceeds the upload limit")
	ErrAlreadyApproved = errors.New("proof of visit is already approved")
)
