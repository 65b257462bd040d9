package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdo/taskdo/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create and get round-trip", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		s := session.NewSession("tok-1", time.Hour)
		s.Set("flash", "welcome")
		require.NoError(t, store.Create(ctx, s))

		got, err := store.Get(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)

		flash, ok := got.GetString("flash")
		require.True(t, ok)
		assert.Equal(t, "welcome", flash)

		got.Delete("flash")
		_, ok = got.Get("flash")
		assert.False(t, ok)
	})

	t.Run("get returns copies", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(ctx, session.NewSession("tok-2", time.Hour)))

		first, err := store.Get(ctx, "tok-2")
		require.NoError(t, err)
		first.Set("mutated", true)

		second, err := store.Get(ctx, "tok-2")
		require.NoError(t, err)
		_, ok := second.Get("mutated")
		assert.False(t, ok)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		_, err := store.Get(ctx, "ghost")
		require.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("expired session is evicted on read", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(ctx, session.NewSession("tok-3", -time.Minute)))

		_, err := store.Get(ctx, "tok-3")
		require.ErrorIs(t, err, session.ErrSessionExpired)

		_, err = store.Get(ctx, "tok-3")
		require.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("activity update requires an existing session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		err := store.UpdateActivity(ctx, "ghost", time.Now())
		require.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("delete expired sweeps stale sessions", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(ctx, session.NewSession("live", time.Hour)))
		require.NoError(t, store.Create(ctx, session.NewSession("stale", -time.Minute)))

		require.NoError(t, store.DeleteExpired(ctx))

		_, err := store.Get(ctx, "live")
		require.NoError(t, err)
		_, err = store.Get(ctx, "stale")
		require.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}
