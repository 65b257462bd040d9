package authn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskdo/taskdo/pkg/logger"
	"github.com/taskdo/taskdo/pkg/sanitizer"
)

// PasswordHasher abstracts secret hashing so tests can swap in a cheap
// implementation.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(hash, secret string) bool
}

// BcryptHasher hashes secrets with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost. A cost outside the
// valid bcrypt range falls back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", errors.Join(ErrFailedToHashSecret, err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// LocalAuthenticator registers and verifies password accounts.
type LocalAuthenticator struct {
	store  AccountStore
	hasher PasswordHasher
	logger *slog.Logger
}

// LocalAuthenticatorOption configures a LocalAuthenticator.
type LocalAuthenticatorOption func(*LocalAuthenticator)

// WithLocalLogger sets the logger for registration and login events.
func WithLocalLogger(l *slog.Logger) LocalAuthenticatorOption {
	return func(a *LocalAuthenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewLocalAuthenticator creates an authenticator backed by the given store
// and hasher.
func NewLocalAuthenticator(store AccountStore, hasher PasswordHasher, opts ...LocalAuthenticatorOption) *LocalAuthenticator {
	a := &LocalAuthenticator{
		store:  store,
		hasher: hasher,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register creates a password account for the identifier. The identifier is
// normalized before storage so lookups from both login paths agree on the key.
func (a *LocalAuthenticator) Register(ctx context.Context, identifier, secret string) (*Account, error) {
	identifier = sanitizer.NormalizeEmail(identifier)

	hash, err := a.hasher.Hash(secret)
	if err != nil {
		return nil, err
	}

	account, err := a.store.Insert(ctx, &Account{
		AccountIdentifier: identifier,
		SecretHash:        hash,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("register account: %w", err)
	}

	a.logger.InfoContext(ctx, "account registered", logger.AccountID(account.ID))
	return account, nil
}

// Authenticate verifies the secret and returns a principal for the session.
// A missing account and a wrong secret both surface as ErrInvalidCredentials.
func (a *LocalAuthenticator) Authenticate(ctx context.Context, identifier, secret string) (Principal, error) {
	identifier = sanitizer.NormalizeEmail(identifier)

	account, err := a.store.FindByAccountIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, fmt.Errorf("authenticate account: %w", err)
	}

	if !a.hasher.Verify(account.SecretHash, secret) {
		return Principal{}, ErrInvalidCredentials
	}

	return LocalPrincipal(account), nil
}
