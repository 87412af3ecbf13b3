package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrNotAuthorized      = errors.New("not authorized")
)
