package domain

import "errors"

var (
	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user account disabled")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSamePassword       = errors.New("new password must differ from current password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)
