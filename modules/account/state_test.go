package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskdo/taskdo/modules/account"
)

func TestMemoryStateStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("consume is one-time", func(t *testing.T) {
		t.Parallel()

		store := account.NewMemoryStateStore()
		require.NoError(t, store.Store(ctx, "state-1", time.Minute))

		require.NoError(t, store.Consume(ctx, "state-1"))
		require.ErrorIs(t, store.Consume(ctx, "state-1"), account.ErrInvalidState)
	})

	t.Run("unknown state is rejected", func(t *testing.T) {
		t.Parallel()

		store := account.NewMemoryStateStore()
		require.ErrorIs(t, store.Consume(ctx, "ghost"), account.ErrInvalidState)
	})

	t.Run("expired state is rejected", func(t *testing.T) {
		t.Parallel()

		store := account.NewMemoryStateStore()
		require.NoError(t, store.Store(ctx, "state-2", -time.Minute))
		require.ErrorIs(t, store.Consume(ctx, "state-2"), account.ErrInvalidState)
	})

	t.Run("expired states are swept on store", func(t *testing.T) {
		t.Parallel()

		store := account.NewMemoryStateStore()
		require.NoError(t, store.Store(ctx, "state-4", -time.Minute))

		// The expired entry no longer blocks reuse of its token.
		require.NoError(t, store.Store(ctx, "state-4", time.Minute))
	})

	t.Run("duplicate store is rejected", func(t *testing.T) {
		t.Parallel()

		store := account.NewMemoryStateStore()
		require.NoError(t, store.Store(ctx, "state-3", time.Minute))
		require.ErrorIs(t, store.Store(ctx, "state-3", time.Minute), account.ErrInvalidState)
	})
}
