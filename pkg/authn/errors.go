package authn

import "errors"

var (
	// ErrAccountNotFound is returned when no account matches the identifier.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount is returned when an insert collides with an
	// existing account identifier.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrAccountExists is returned by registration when the identifier is
	// already taken.
	ErrAccountExists = errors.New("account identifier already registered")
	// ErrInvalidCredentials is returned when the identifier or secret does
	// not match. Lookup misses and hash mismatches are deliberately
	// indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrFailedToReconcile is returned when a duplicate insert cannot be
	// recovered by re-reading the winning row.
	ErrFailedToReconcile = errors.New("failed to reconcile account")
	// ErrFailedToHashSecret is returned when the hasher rejects the secret.
	ErrFailedToHashSecret = errors.New("failed to hash secret")
)
