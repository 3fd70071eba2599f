package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key reports absent", func(t *testing.T) {
		s := NewMemoryStore()

		val, ok, err := s.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, val)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		s := NewMemoryStore()

		require.NoError(t, s.Set(ctx, "search:history", `[{"term":"ödeme"}]`))

		val, ok, err := s.Get(ctx, "search:history")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"term":"ödeme"}]`, val)
	})

	t.Run("set replaces the whole value", func(t *testing.T) {
		s := NewMemoryStore()

		require.NoError(t, s.Set(ctx, "k", "first"))
		require.NoError(t, s.Set(ctx, "k", "second"))

		val, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "second", val)
	})

	t.Run("remove deletes and is idempotent", func(t *testing.T) {
		s := NewMemoryStore()

		require.NoError(t, s.Set(ctx, "k", "v"))
		require.NoError(t, s.Remove(ctx, "k"))
		require.NoError(t, s.Remove(ctx, "k"))

		_, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("empty value is distinguishable from absent", func(t *testing.T) {
		s := NewMemoryStore()

		require.NoError(t, s.Set(ctx, "k", ""))

		val, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, val)
	})
}
