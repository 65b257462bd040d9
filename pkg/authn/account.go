// Package authn links canonical identities to persistent accounts and builds
// the unified principal both login paths hand to the session layer.
package authn

import (
	"context"
	"time"
)

// Account is the persistent user record. AccountIdentifier is the unique
// natural key (the email captured at provisioning time); SecretHash is only
// meaningful for password accounts but is never empty — federated-only
// accounts carry a hash of a fixed placeholder to satisfy storage
// constraints.
type Account struct {
	ID                int64     `json:"id"`
	AccountIdentifier string    `json:"account_identifier"`
	SecretHash        string    `json:"-"`
	ExternalProvider  string    `json:"external_provider,omitempty"`
	ExternalID        string    `json:"external_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// AccountStore is the persistence collaborator for accounts.
type AccountStore interface {
	// FindByAccountIdentifier returns ErrAccountNotFound when no account
	// carries the identifier.
	FindByAccountIdentifier(ctx context.Context, identifier string) (*Account, error)

	// Insert persists a new account and returns it with the generated ID.
	// A unique-constraint violation on the identifier surfaces as
	// ErrDuplicateAccount.
	Insert(ctx context.Context, account *Account) (*Account, error)

	// Update persists changes to an existing account.
	Update(ctx context.Context, account *Account) (*Account, error)
}
