package authn

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdo/taskdo/pkg/pg"
)

// PgAccountStore persists accounts in Postgres.
type PgAccountStore struct {
	pool *pgxpool.Pool
}

// NewPgAccountStore creates a store backed by the given pool.
func NewPgAccountStore(pool *pgxpool.Pool) *PgAccountStore {
	return &PgAccountStore{pool: pool}
}

var _ AccountStore = (*PgAccountStore)(nil)

func (s *PgAccountStore) FindByAccountIdentifier(ctx context.Context, identifier string) (*Account, error) {
	const query = `
		SELECT id, account_identifier, secret_hash, external_provider, external_id, created_at
		FROM accounts
		WHERE account_identifier = $1`

	var account Account
	err := s.pool.QueryRow(ctx, query, identifier).Scan(
		&account.ID,
		&account.AccountIdentifier,
		&account.SecretHash,
		&account.ExternalProvider,
		&account.ExternalID,
		&account.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

func (s *PgAccountStore) Insert(ctx context.Context, account *Account) (*Account, error) {
	const query = `
		INSERT INTO accounts (account_identifier, secret_hash, external_provider, external_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query,
		account.AccountIdentifier,
		account.SecretHash,
		account.ExternalProvider,
		account.ExternalID,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return account, nil
}

func (s *PgAccountStore) Update(ctx context.Context, account *Account) (*Account, error) {
	const query = `
		UPDATE accounts
		SET secret_hash = $2, external_provider = $3, external_id = $4
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		account.ID,
		account.SecretHash,
		account.ExternalProvider,
		account.ExternalID,
	)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
