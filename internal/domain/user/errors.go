package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrActorRequired           = errors.New("authenticated user is required")
)
