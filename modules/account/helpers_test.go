package account_test

import (
	"context"
	"sync"

	"github.com/taskdo/taskdo/pkg/authn"
)

type fakeHasher struct{}

func (fakeHasher) Hash(secret string) (string, error) { return "hashed:" + secret, nil }
func (fakeHasher) Verify(hash, secret string) bool    { return hash == "hashed:"+secret }

type fakeAccountStore struct {
	mu     sync.Mutex
	nextID int64
	byKey  map[string]*authn.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{byKey: make(map[string]*authn.Account)}
}

func (s *fakeAccountStore) FindByAccountIdentifier(_ context.Context, identifier string) (*authn.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.byKey[identifier]; ok {
		clone := *acc
		return &clone, nil
	}
	return nil, authn.ErrAccountNotFound
}

func (s *fakeAccountStore) Insert(_ context.Context, account *authn.Account) (*authn.Account, error) {
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

func (s *fakeAccountStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey)
}

func (s *fakeAccountStore) Update(_ context.Context, account *authn.Account) (*authn.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byKey[account.AccountIdentifier]; !ok {
		return nil, authn.ErrAccountNotFound
	}
	clone := *account
	s.byKey[account.AccountIdentifier] = &clone
	return account, nil
}
