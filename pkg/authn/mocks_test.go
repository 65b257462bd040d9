package authn_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/taskdo/taskdo/pkg/authn"
)

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindByAccountIdentifier(ctx context.Context, identifier string) (*authn.Account, error) {
	args := m.Called(ctx, identifier)
	if acc := args.Get(0); acc != nil {
		return acc.(*authn.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) Insert(ctx context.Context, account *authn.Account) (*authn.Account, error) {
	args := m.Called(ctx, account)
	if acc := args.Get(0); acc != nil {
		return acc.(*authn.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) Update(ctx context.Context, account *authn.Account) (*authn.Account, error) {
	args := m.Called(ctx, account)
	if acc := args.Get(0); acc != nil {
		return acc.(*authn.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(secret string) (string, error) {
	args := m.Called(secret)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(hash, secret string) bool {
	args := m.Called(hash, secret)
	return args.Bool(0)
}

// plainHasher prefixes secrets instead of hashing so tests stay fast and the
// stored value remains inspectable.
type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return "hashed:" + secret, nil }
func (plainHasher) Verify(hash, secret string) bool    { return hash == "hashed:"+secret }

// memoryAccountStore is a constraint-enforcing in-memory store for round-trip
// tests that need real find-or-create behavior rather than canned responses.
type memoryAccountStore struct {
	mu     sync.Mutex
	nextID int64
	byKey  map[string]*authn.Account
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{byKey: make(map[string]*authn.Account)}
}

func (s *memoryAccountStore) FindByAccountIdentifier(_ context.Context, identifier string) (*authn.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.byKey[identifier]; ok {
		clone := *acc
		return &clone, nil
	}
	return nil, authn.ErrAccountNotFound
}

func (s *memoryAccountStore) Insert(_ context.Context, account *authn.Account) (*authn.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byKey[account.AccountIdentifier]; ok {
		return nil, authn.ErrDuplicateAccount
	}
	s.nextID++
	account.ID = s.nextID
	clone := *account
	s.byKey[account.AccountIdentifier] = &clone
	return account, nil
}

func (s *memoryAccountStore) Update(_ context.Context, account *authn.Account) (*authn.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byKey[account.AccountIdentifier]; !ok {
		return nil, authn.ErrAccountNotFound
	}
	clone := *account
	s.byKey[account.AccountIdentifier] = &clone
	return account, nil
}
