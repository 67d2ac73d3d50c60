package user

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidRole         = errors.New("invalid role")
	ErrUnknownModule       = errors.New("unknown privilege module")
	ErrUnknownAction       = errors.New("unknown privilege action")
	ErrCannotEditSuperUser = errors.New("super admin privileges cannot be changed")
)
