package authn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/taskdo/taskdo/pkg/identity"
	"github.com/taskdo/taskdo/pkg/logger"
	"github.com/taskdo/taskdo/pkg/sanitizer"
)

// federatedSecret is the fixed placeholder hashed into accounts provisioned
// through a federated login. Such accounts have no usable password until one
// is set explicitly.
const federatedSecret = "federated-login"

// Reconciler matches a canonical identity to a persistent account, creating
// one on first login. Reconciling the same identity twice yields the same
// account.
type Reconciler struct {
	store  AccountStore
	hasher PasswordHasher
	logger *slog.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithReconcilerLogger sets the logger for provisioning events.
func WithReconcilerLogger(l *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReconciler creates a reconciler backed by the given store and hasher.
func NewReconciler(store AccountStore, hasher PasswordHasher, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:  store,
		hasher: hasher,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile finds the account for the identity's email or provisions one.
// Two logins racing to provision the same email are resolved through the
// store's unique constraint: the loser re-reads the winner's row. A re-read
// that still misses means the account vanished between the two calls, which
// is not recoverable here.
func (r *Reconciler) Reconcile(ctx context.Context, id identity.Identity) (*Account, error) {
	identifier := sanitizer.NormalizeEmail(id.Email)

	account, err := r.store.FindByAccountIdentifier(ctx, identifier)
	if err == nil {
		return r.refreshProvider(ctx, account, id)
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("reconcile lookup: %w", err)
	}

	hash, err := r.hasher.Hash(federatedSecret)
	if err != nil {
		return nil, err
	}

	account, err = r.store.Insert(ctx, &Account{
		AccountIdentifier: identifier,
		SecretHash:        hash,
		ExternalProvider:  id.Provider,
		ExternalID:        id.ExternalID,
	})
	if err == nil {
		r.logger.InfoContext(ctx, "account provisioned",
			logger.AccountID(account.ID),
			logger.Provider(id.Provider),
		)
		return account, nil
	}
	if !errors.Is(err, ErrDuplicateAccount) {
		return nil, fmt.Errorf("reconcile insert: %w", err)
	}

	// Lost the provisioning race; the winner's row must be there now.
	account, err = r.store.FindByAccountIdentifier(ctx, identifier)
	if err != nil {
		return nil, errors.Join(ErrFailedToReconcile, err)
	}
	return account, nil
}

// refreshProvider records the latest provider linkage on an existing account
// so an account created by password login picks up the federated identity on
// its first OAuth sign-in.
func (r *Reconciler) refreshProvider(ctx context.Context, account *Account, id identity.Identity) (*Account, error) {
	if account.ExternalProvider == id.Provider && account.ExternalID == id.ExternalID {
		return account, nil
	}

	account.ExternalProvider = id.Provider
	account.ExternalID = id.ExternalID

	updated, err := r.store.Update(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("reconcile update: %w", err)
	}
	return updated, nil
}
