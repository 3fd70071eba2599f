package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/searchkit/pkg/store"
)

func TestPopularityObserve(t *testing.T) {
	ctx := context.Background()

	t.Run("insert then increment", func(t *testing.T) {
		st := store.NewMemoryStore()
		p := NewPopularity(ctx, st, 20, nil)

		p.Observe(ctx, "ödeme sorunu")
		p.Observe(ctx, "ödeme sorunu")
		p.Observe(ctx, "fatura")

		top := p.Top(2)
		require.Len(t, top, 2)
		assert.Equal(t, "ödeme sorunu", top[0].Term)
		assert.Equal(t, 2, top[0].Count)
		assert.Equal(t, "fatura", top[1].Term)
		assert.Equal(t, 1, top[1].Count)
	})

	t.Run("matching is case-sensitive on the literal term", func(t *testing.T) {
		st := store.NewMemoryStore()
		p := NewPopularity(ctx, st, 20, nil)

		p.Observe(ctx, "Fatura")
		p.Observe(ctx, "fatura")

		assert.Equal(t, 2, p.Len())
		assert.Equal(t, 1, p.Count("Fatura"))
		assert.Equal(t, 1, p.Count("fatura"))
	})

	t.Run("empty term is ignored", func(t *testing.T) {
		st := store.NewMemoryStore()
		p := NewPopularity(ctx, st, 20, nil)

		p.Observe(ctx, "")
		assert.Equal(t, 0, p.Len())
	})

	t.Run("top(1) always holds the maximum count", func(t *testing.T) {
		st := store.NewMemoryStore()
		p := NewPopularity(ctx, st, 5, nil)

		terms := []string{"a", "b", "a", "c", "b", "a", "d", "e", "f", "c", "a"}
		for _, term := range terms {
			p.Observe(ctx, term)
		}

		top := p.Top(1)
		require.Len(t, top, 1)
		assert.Equal(t, "a", top[0].Term)
		assert.Equal(t, 4, top[0].Count)
	})

	t.Run("never exceeds cap", func(t *testing.T) {
		st := store.NewMemoryStore()
		p := NewPopularity(ctx, st, 3, nil)

		for i := 0; i < 10; i++ {
			p.Observe(ctx, fmt.Sprintf("term-%d", i))
		}
		assert.Equal(t, 3, p.Len())
	})

	t.Run("ties broken by most recent occurrence", func(t *testing.T) {
		st := store.NewMemoryStore()
		p := NewPopularity(ctx, st, 20, fixedClock(testEpoch, time.Minute))

		p.Observe(ctx, "older")
		p.Observe(ctx, "newer")

		top := p.Top(2)
		require.Len(t, top, 2)
		assert.Equal(t, "newer", top[0].Term)
		assert.Equal(t, "older", top[1].Term)
	})
}

func TestPopularityPersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("survives reconstruction", func(t *testing.T) {
		st := store.NewMemoryStore()

		first := NewPopularity(ctx, st, 20, nil)
		first.Observe(ctx, "şifre sıfırlama")
		first.Observe(ctx, "şifre sıfırlama")

		second := NewPopularity(ctx, st, 20, nil)
		assert.Equal(t, 2, second.Count("şifre sıfırlama"))
	})

	t.Run("corrupt blob starts empty", func(t *testing.T) {
		st := store.NewMemoryStore()
		require.NoError(t, st.Set(ctx, PopularityKey, "[[["))

		p := NewPopularity(ctx, st, 20, nil)
		assert.Equal(t, 0, p.Len())
	})

	t.Run("read failure starts empty", func(t *testing.T) {
		st := store.NewMemoryStore()
		seed := NewPopularity(ctx, st, 20, nil)
		seed.Observe(ctx, "fatura")

		broken := &faultyStore{MemoryStore: st, getErr: errors.New("connection refused")}
		p := NewPopularity(ctx, broken, 20, nil)
		assert.Equal(t, 0, p.Len())
	})

	t.Run("write failure keeps counts in memory", func(t *testing.T) {
		st := &faultyStore{MemoryStore: store.NewMemoryStore(), setErr: errors.New("write: broken pipe")}
		p := NewPopularity(ctx, st, 20, nil)

		p.Observe(ctx, "ödeme sorunu")
		p.Observe(ctx, "ödeme sorunu")
		assert.Equal(t, 2, p.Count("ödeme sorunu"))

		_, found, err := st.MemoryStore.Get(ctx, PopularityKey)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("clear removes the blob", func(t *testing.T) {
		st := store.NewMemoryStore()
		p := NewPopularity(ctx, st, 20, nil)
		p.Observe(ctx, "iade")

		require.NoError(t, p.Clear(ctx))
		assert.Equal(t, 0, p.Len())

		_, found, err := st.Get(ctx, PopularityKey)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestClassifyTrend(t *testing.T) {
	now := testEpoch
	window := 7 * 24 * time.Hour

	event := func(term string, age time.Duration) Event {
		return Event{Term: term, Timestamp: now.Add(-age), ResultCount: 1}
	}

	t.Run("no occurrences anywhere is stable", func(t *testing.T) {
		events := []Event{event("other", time.Hour)}
		assert.Equal(t, TrendStable, ClassifyTrend("ödeme", events, window, now))
	})

	t.Run("only in recent window is up", func(t *testing.T) {
		events := []Event{
			event("ödeme", time.Hour),
			event("other", 10*24*time.Hour),
		}
		assert.Equal(t, TrendUp, ClassifyTrend("ödeme", events, window, now))
	})

	t.Run("only in prior window is down", func(t *testing.T) {
		events := []Event{
			event("ödeme", 10*24*time.Hour),
			event("other", time.Hour),
		}
		assert.Equal(t, TrendDown, ClassifyTrend("ödeme", events, window, now))
	})

	t.Run("equal shares are stable", func(t *testing.T) {
		events := []Event{
			event("ödeme", time.Hour),
			event("other", 2*time.Hour),
			event("ödeme", 8*24*time.Hour),
			event("other", 9*24*time.Hour),
		}
		assert.Equal(t, TrendStable, ClassifyTrend("ödeme", events, window, now))
	})

	t.Run("growing share beyond threshold is up", func(t *testing.T) {
		// Recent: 3 of 4 searches. Prior: 1 of 4.
		events := []Event{
			event("ödeme", 1*time.Hour),
			event("ödeme", 2*time.Hour),
			event("ödeme", 3*time.Hour),
			event("other", 4*time.Hour),
			event("ödeme", 8*24*time.Hour),
			event("other", 9*24*time.Hour),
			event("other", 10*24*time.Hour),
			event("other", 11*24*time.Hour),
		}
		assert.Equal(t, TrendUp, ClassifyTrend("ödeme", events, window, now))
	})

	t.Run("shrinking share beyond threshold is down", func(t *testing.T) {
		events := []Event{
			event("ödeme", 1*time.Hour),
			event("other", 2*time.Hour),
			event("other", 3*time.Hour),
			event("other", 4*time.Hour),
			event("ödeme", 8*24*time.Hour),
			event("ödeme", 9*24*time.Hour),
			event("ödeme", 10*24*time.Hour),
			event("other", 11*24*time.Hour),
		}
		assert.Equal(t, TrendDown, ClassifyTrend("ödeme", events, window, now))
	})
}
