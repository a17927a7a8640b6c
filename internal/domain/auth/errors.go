package auth

import "errors"

// Auth domain errors
var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrInvalidToken             = errors.New("invalid or expired token")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
)
