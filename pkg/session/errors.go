package session

import "errors"

var (
	// ErrInvalidSession indicates a session without a usable token.
	ErrInvalidSession = errors.New("session.invalid")

	// ErrSessionExpired indicates the session has expired.
	ErrSessionExpired = errors.New("session.expired")

	// ErrSessionNotFound indicates no session was found.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrTokenGeneration indicates token generation failed.
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrNoToken indicates the request carried no session token.
	ErrNoToken = errors.New("session.no_token")
)
