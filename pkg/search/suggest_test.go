package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	t.Run("query shorter than minLength yields nothing", func(t *testing.T) {
		assert.Empty(t, Suggest("ö", 2, 8, SuggestInput{}))
	})

	t.Run("multi-byte runes count as one character", func(t *testing.T) {
		// "öd" is two runes even though it is three bytes.
		out := Suggest("öd", 2, 8, SuggestInput{})
		assert.NotEmpty(t, out)
	})

	t.Run("static suggestions need no history", func(t *testing.T) {
		out := Suggest("öd", 2, 8, SuggestInput{})
		require.NotEmpty(t, out)

		var popular, category int
		for _, s := range out {
			switch s.Kind {
			case KindPopular:
				popular++
			case KindCategory:
				category++
			}
		}
		assert.Greater(t, popular, 0, "static popular terms must match")
		assert.Greater(t, category, 0, "category inference must match")
	})

	t.Run("tiers keep priority order", func(t *testing.T) {
		in := SuggestInput{
			Recent: []Event{
				{Term: "ödeme gecikti", Timestamp: time.Now()},
			},
		}
		out := Suggest("ödeme", 2, 8, in)
		require.NotEmpty(t, out)

		// Popular entries come before category entries, which come
		// before recent ones.
		lastTier := 0
		tierOf := map[SuggestionKind]int{KindPopular: 1, KindCategory: 2, KindRecent: 3}
		for _, s := range out {
			tier := tierOf[s.Kind]
			assert.GreaterOrEqual(t, tier, lastTier)
			lastTier = tier
		}
	})

	t.Run("deduplicates by text", func(t *testing.T) {
		in := SuggestInput{
			Recent: []Event{
				{Term: "ödeme sorunu"}, // same as a static popular term
				{Term: "ödeme sorunu"},
				{Term: "ödeme gecikti"},
			},
		}
		out := Suggest("ödeme", 2, 20, in)

		seen := make(map[string]bool)
		for _, s := range out {
			assert.False(t, seen[s.Text], "duplicate suggestion %q", s.Text)
			seen[s.Text] = true
		}
	})

	t.Run("never exceeds max", func(t *testing.T) {
		var recent []Event
		for _, term := range []string{"ödeme a", "ödeme b", "ödeme c", "ödeme d"} {
			recent = append(recent, Event{Term: term})
		}
		out := Suggest("ödeme", 2, 3, SuggestInput{Recent: recent})
		assert.LessOrEqual(t, len(out), 3)
	})

	t.Run("at most three recent suggestions, most recent first", func(t *testing.T) {
		in := SuggestInput{
			Recent: []Event{
				{Term: "kargo takibi 1"},
				{Term: "kargo takibi 2"},
				{Term: "kargo takibi 3"},
				{Term: "kargo takibi 4"},
			},
		}
		out := Suggest("kargo", 2, 8, in)

		var recents []string
		for _, s := range out {
			if s.Kind == KindRecent {
				recents = append(recents, s.Text)
			}
		}
		assert.Equal(t, []string{"kargo takibi 4", "kargo takibi 3", "kargo takibi 2"}, recents)
	})

	t.Run("counts are attached when known", func(t *testing.T) {
		in := SuggestInput{
			Recent: []Event{{Term: "kargo takibi"}},
			Counts: map[string]int{"kargo takibi": 7, "ödeme sorunu": 12},
		}

		out := Suggest("kargo", 2, 8, in)
		require.Len(t, out, 1)
		assert.Equal(t, 7, out[0].Count)

		out = Suggest("ödeme", 2, 8, in)
		require.NotEmpty(t, out)
		assert.Equal(t, "ödeme sorunu", out[0].Text)
		assert.Equal(t, 12, out[0].Count)
	})

	t.Run("containment works in both directions for static terms", func(t *testing.T) {
		// The query contains the whole static term.
		out := Suggest("teknik destek hattı", 2, 8, SuggestInput{})

		var texts []string
		for _, s := range out {
			if s.Kind == KindPopular {
				texts = append(texts, s.Text)
			}
		}
		assert.Contains(t, texts, "teknik destek")
	})

	t.Run("category suggestion text is the category name", func(t *testing.T) {
		out := Suggest("fatura", 2, 8, SuggestInput{})

		var texts []string
		for _, s := range out {
			if s.Kind == KindCategory {
				texts = append(texts, s.Text)
			}
		}
		assert.Contains(t, texts, "Ödeme category")
	})
}
