package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
	ErrMFAUnavailable     = errors.New("mfa requires DATA_ENCRYPTION_KEY")
	ErrMFANotSetUp        = errors.New("mfa setup required")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnknownRole        = errors.New("unknown role")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with upper, lower case letters and a number")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidStatus      = errors.New("status must be active or disabled")
)
