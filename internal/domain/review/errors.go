package review

import "errors"

var ErrAlreadyReviewed = errors.New("you have already reviewed this business")
