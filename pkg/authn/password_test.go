package authn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdo/taskdo/pkg/authn"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := authn.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, h.Verify(hash, "s3cret"))
	assert.False(t, h.Verify(hash, "wrong"))

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		t.Parallel()

		h := authn.NewBcryptHasher(999)
		hash, err := h.Hash("pw")
		require.NoError(t, err)
		assert.True(t, h.Verify(hash, "pw"))
	})
}

func TestLocalAuthenticator_Register(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stores a normalized identifier with a hashed secret", func(t *testing.T) {
		t.Parallel()

		store := new(MockAccountStore)
		store.On("Insert", ctx, mock.MatchedBy(func(acc *authn.Account) bool {
			return acc.AccountIdentifier == "new@x.com" && acc.SecretHash == "hashed:pw"
		})).Return(&authn.Account{ID: 1, AccountIdentifier: "new@x.com"}, nil).Once()

		a := authn.NewLocalAuthenticator(store, plainHasher{})

		account, err := a.Register(ctx, " New@X.Com ", "pw")
		require.NoError(t, err)
		assert.Equal(t, int64(1), account.ID)
		store.AssertExpectations(t)
	})

	t.Run("reports a taken identifier", func(t *testing.T) {
		t.Parallel()

		store := new(MockAccountStore)
		store.On("Insert", ctx, mock.Anything).Return(nil, authn.ErrDuplicateAccount).Once()

		a := authn.NewLocalAuthenticator(store, plainHasher{})

		_, err := a.Register(ctx, "taken@x.com", "pw")
		require.ErrorIs(t, err, authn.ErrAccountExists)
	})

	t.Run("surfaces hasher failures", func(t *testing.T) {
		t.Parallel()

		hasher := new(MockPasswordHasher)
		hasher.On("Hash", "pw").Return("", errors.New("cost too high")).Once()

		a := authn.NewLocalAuthenticator(new(MockAccountStore), hasher)

		_, err := a.Register(ctx, "x@x.com", "pw")
		require.Error(t, err)
	})
}

func TestLocalAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	account := &authn.Account{ID: 8, AccountIdentifier: "a@x.com", SecretHash: "hashed:pw"}

	t.Run("returns a local principal on a match", func(t *testing.T) {
		t.Parallel()

		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "a@x.com").Return(account, nil).Once()

		a := authn.NewLocalAuthenticator(store, plainHasher{})

		p, err := a.Authenticate(ctx, "A@X.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, int64(8), p.AccountID)
		assert.False(t, p.IsFederated())
	})

	t.Run("missing account and wrong secret are indistinguishable", func(t *testing.T) {
		t.Parallel()

		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "ghost@x.com").Return(nil, authn.ErrAccountNotFound).Once()
		store.On("FindByAccountIdentifier", ctx, "a@x.com").Return(account, nil).Once()

		a := authn.NewLocalAuthenticator(store, plainHasher{})

		_, missErr := a.Authenticate(ctx, "ghost@x.com", "pw")
		_, wrongErr := a.Authenticate(ctx, "a@x.com", "nope")

		require.ErrorIs(t, missErr, authn.ErrInvalidCredentials)
		require.ErrorIs(t, wrongErr, authn.ErrInvalidCredentials)
		assert.Equal(t, missErr, wrongErr)
	})

	t.Run("storage failures are not credential failures", func(t *testing.T) {
		t.Parallel()

		store := new(MockAccountStore)
		store.On("FindByAccountIdentifier", ctx, "a@x.com").Return(nil, errors.New("connection reset")).Once()

		a := authn.NewLocalAuthenticator(store, plainHasher{})

		_, err := a.Authenticate(ctx, "a@x.com", "pw")
		require.Error(t, err)
		assert.NotErrorIs(t, err, authn.ErrInvalidCredentials)
	})
}

func TestRegisterThenAuthenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryAccountStore()
	a := authn.NewLocalAuthenticator(store, authn.NewBcryptHasher(bcrypt.MinCost))

	_, err := a.Register(ctx, "round@x.com", "trip-pw")
	require.NoError(t, err)

	p, err := a.Authenticate(ctx, "round@x.com", "trip-pw")
	require.NoError(t, err)
	assert.Equal(t, "round@x.com", p.AccountIdentifier)

	_, err = a.Authenticate(ctx, "round@x.com", "other")
	require.ErrorIs(t, err, authn.ErrInvalidCredentials)
}
