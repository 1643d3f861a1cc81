package auth

import "errors"

// Common authentication service errors
var (
	// ErrMissingToken indicates no Authorization header was supplied
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrMalformedHeader indicates the Authorization header is not "Bearer <token>"
	ErrMalformedHeader = errors.New("malformed authorization header")

	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrServerMisconfigured indicates no signing secret is configured
	ErrServerMisconfigured = errors.New("token verification secret is not configured")
)
