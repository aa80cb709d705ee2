package service

import "errors"

// Flow errors surfaced to handlers. Each step of the OAuth callback is
// terminal: nothing is retried, the first failure aborts the flow.
var (
	ErrInvalidPlatform    = errors.New("unknown platform")
	ErrStateMismatch      = errors.New("invalid state parameter")
	ErrMissingCode        = errors.New("no authorization code received")
	ErrExchange           = errors.New("token exchange failed")
	ErrPersistence        = errors.New("failed to store social account")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrValidation         = errors.New("validation failed")
	ErrParse              = errors.New("failed to parse CSV file")
	ErrNotFound           = errors.New("not found")
)
