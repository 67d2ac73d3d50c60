package loan

import "errors"

var (
	ErrLoanNotFound = errors.New("loan not found")
	ErrInvalidType  = errors.New("invalid loan type")
)
