package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when username/password verification fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token fails validation
	ErrInvalidToken = errors.New("invalid token")
)
