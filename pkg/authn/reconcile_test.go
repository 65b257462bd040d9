package authn_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskdo/taskdo/pkg/authn"
	"github.com/taskdo/taskdo/pkg/identity"
)

func TestReconciler_Reconcile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kakaoIdentity := identity.Identity{
		Provider:   identity.ProviderKakao,
		ExternalID: "555",
		Email:      "a@x.com",
	}

	t.Run("provisions an account on first login", func(t *testing.T) {
		t.Parallel()

		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "a@x.com").Return(nil, authn.ErrAccountNotFound).Once()
		store.On("Insert", ctx, mock.MatchedBy(func(acc *authn.Account) bool {
			return acc.AccountIdentifier == "a@x.com" &&
				acc.SecretHash == "hashed:federated-login" &&
				acc.ExternalProvider == identity.ProviderKakao &&
				acc.ExternalID == "555"
		})).Return(&authn.Account{ID: 1, AccountIdentifier: "a@x.com"}, nil).Once()

		r := authn.NewReconciler(store, plainHasher{})

		account, err := r.Reconcile(ctx, kakaoIdentity)
		require.NoError(t, err)
		assert.Equal(t, int64(1), account.ID)
		store.AssertExpectations(t)
	})

	t.Run("returns the existing account without touching it", func(t *testing.T) {
		t.Parallel()

		existing := &authn.Account{
			ID:                7,
			AccountIdentifier: "a@x.com",
			ExternalProvider:  identity.ProviderKakao,
			ExternalID:        "555",
		}
		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "a@x.com").Return(existing, nil).Once()

		r := authn.NewReconciler(store, plainHasher{})

		account, err := r.Reconcile(ctx, kakaoIdentity)
		require.NoError(t, err)
		assert.Equal(t, int64(7), account.ID)
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("links the federated identity onto a password account", func(t *testing.T) {
		t.Parallel()

		existing := &authn.Account{ID: 9, AccountIdentifier: "a@x.com"}
		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "a@x.com").Return(existing, nil).Once()
		store.On("Update", ctx, mock.MatchedBy(func(acc *authn.Account) bool {
			return acc.ID == 9 &&
				acc.ExternalProvider == identity.ProviderKakao &&
				acc.ExternalID == "555"
		})).Return(existing, nil).Once()

		r := authn.NewReconciler(store, plainHasher{})

		account, err := r.Reconcile(ctx, kakaoIdentity)
		require.NoError(t, err)
		assert.Equal(t, int64(9), account.ID)
		store.AssertExpectations(t)
	})

	t.Run("recovers a lost provisioning race by re-reading", func(t *testing.T) {
		t.Parallel()

		winner := &authn.Account{ID: 3, AccountIdentifier: "a@x.com"}
		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "a@x.com").Return(nil, authn.ErrAccountNotFound).Once()
		store.On("Insert", ctx, mock.Anything).Return(nil, authn.ErrDuplicateAccount).Once()
		store.On("FindByAccountIdentifier", ctx, "a@x.com").Return(winner, nil).Once()

		r := authn.NewReconciler(store, plainHasher{})

		account, err := r.Reconcile(ctx, kakaoIdentity)
		require.NoError(t, err)
		assert.Equal(t, int64(3), account.ID)
		store.AssertExpectations(t)
	})

	t.Run("escalates when the re-read after a lost race misses", func(t *testing.T) {
		t.Parallel()

		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "a@x.com").Return(nil, authn.ErrAccountNotFound).Twice()
		store.On("Insert", ctx, mock.Anything).Return(nil, authn.ErrDuplicateAccount).Once()

		r := authn.NewReconciler(store, plainHasher{})

		_, err := r.Reconcile(ctx, kakaoIdentity)
		require.ErrorIs(t, err, authn.ErrFailedToReconcile)
	})

	t.Run("normalizes the email before lookup", func(t *testing.T) {
		t.Parallel()

		existing := &authn.Account{
			ID:                4,
			AccountIdentifier: "mixed@x.com",
			ExternalProvider:  identity.ProviderGoogle,
			ExternalID:        "g-1",
		}
		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "mixed@x.com").Return(existing, nil).Once()

		r := authn.NewReconciler(store, plainHasher{})

		_, err := r.Reconcile(ctx, identity.Identity{
			Provider:   identity.ProviderGoogle,
			ExternalID: "g-1",
			Email:      "  Mixed@X.Com ",
		})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("keeps an empty email as an ordinary key", func(t *testing.T) {
		t.Parallel()

		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "").Return(nil, authn.ErrAccountNotFound).Once()
		store.On("Insert", ctx, mock.MatchedBy(func(acc *authn.Account) bool {
			return acc.AccountIdentifier == ""
		})).Return(&authn.Account{ID: 5}, nil).Once()

		r := authn.NewReconciler(store, plainHasher{})

		account, err := r.Reconcile(ctx, identity.Identity{Provider: identity.ProviderGithub, ExternalID: "42"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), account.ID)
	})
}

func TestReconciler_Idempotence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryAccountStore()
	r := authn.NewReconciler(store, plainHasher{})

	id := identity.Identity{Provider: identity.ProviderNaver, ExternalID: "n-9", Email: "n@x.com"}

	first, err := r.Reconcile(ctx, id)
	require.NoError(t, err)

	second, err := r.Reconcile(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.AccountIdentifier, second.AccountIdentifier)
}
