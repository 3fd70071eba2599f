package search

import "strings"

// SuggestionKind identifies where a suggestion came from.
type SuggestionKind string

const (
	KindRecent   SuggestionKind = "recent"
	KindPopular  SuggestionKind = "popular"
	KindSimilar  SuggestionKind = "similar"
	KindCategory SuggestionKind = "category"
)

// Suggestion is one candidate completion offered while the user
// types. Count carries the term's occurrence count when known.
type Suggestion struct {
	Text  string         `json:"text"`
	Kind  SuggestionKind `json:"kind"`
	Count int            `json:"count,omitempty"`
}

// CategoryRule maps a topic to the keywords that indicate it.
type CategoryRule struct {
	Name     string
	Keywords []string
}

// DefaultCategoryRules is the static keyword-to-topic table for the
// ticketing domain.
var DefaultCategoryRules = []CategoryRule{
	{Name: "Ödeme", Keywords: []string{"ödeme", "fatura", "para", "iade", "ücret"}},
	{Name: "Hesap", Keywords: []string{"hesap", "giriş", "şifre", "login", "üyelik"}},
	{Name: "Teknik", Keywords: []string{"hata", "sorun", "çalışmıyor", "teknik", "bağlantı"}},
	{Name: "Abonelik", Keywords: []string{"abonelik", "paket", "tarife", "iptal", "kampanya"}},
}

// defaultPopularTerms is the static table of well-known high-frequency
// search terms. It seeds suggestions before any history exists.
var defaultPopularTerms = []string{
	"ödeme sorunu",
	"fatura hatası",
	"giriş yapamıyorum",
	"şifre sıfırlama",
	"iade talebi",
	"teknik destek",
	"hesap kapatma",
	"abonelik iptali",
}

// DefaultMinQueryLength and DefaultMaxSuggestions are the documented
// suggestion defaults.
const (
	DefaultMinQueryLength  = 2
	DefaultMaxSuggestions  = 8
	maxRecentSuggestions   = 3
	categorySuggestionText = " category"
)

// SuggestInput is the explicit state snapshot Suggest computes over.
// Recent must be in insertion order (oldest first); Counts maps terms
// to their popularity counts and may be nil.
type SuggestInput struct {
	Recent     []Event
	Counts     map[string]int
	Categories []CategoryRule
}

// Suggest produces the ranked suggestion list for a partial query.
// Tiers, in priority order: the static popular-term table, category
// inference, then up to three distinct recent terms. The result is
// deduplicated by text and capped at max. A query shorter than
// minLength yields nothing.
func Suggest(partial string, minLength, max int, in SuggestInput) []Suggestion {
	if minLength < 1 {
		minLength = DefaultMinQueryLength
	}
	if max < 1 {
		max = DefaultMaxSuggestions
	}
	if len([]rune(partial)) < minLength {
		return nil
	}

	query := strings.ToLower(partial)
	categories := in.Categories
	if categories == nil {
		categories = DefaultCategoryRules
	}

	seen := make(map[string]bool)
	var out []Suggestion
	add := func(s Suggestion) bool {
		if len(out) >= max || seen[s.Text] {
			return len(out) < max
		}
		seen[s.Text] = true
		out = append(out, s)
		return true
	}

	// Tier 1: static popular terms, containment in either direction.
	for _, term := range defaultPopularTerms {
		lower := strings.ToLower(term)
		if strings.Contains(lower, query) || strings.Contains(query, lower) {
			if !add(Suggestion{Text: term, Kind: KindPopular, Count: in.Counts[term]}) {
				return out
			}
		}
	}

	// Tier 2: category inference, containment in either direction so
	// a prefix like "öd" already surfaces its category.
	for _, rule := range categories {
		for _, kw := range rule.Keywords {
			if strings.Contains(query, kw) || strings.Contains(kw, query) {
				if !add(Suggestion{Text: rule.Name + categorySuggestionText, Kind: KindCategory}) {
					return out
				}
				break
			}
		}
	}

	// Tier 3: distinct recent terms containing the query, most recent
	// first.
	recent := 0
	for i := len(in.Recent) - 1; i >= 0 && recent < maxRecentSuggestions; i-- {
		term := in.Recent[i].Term
		if term == "" || seen[term] {
			continue
		}
		if strings.Contains(strings.ToLower(term), query) {
			if !add(Suggestion{Text: term, Kind: KindRecent, Count: in.Counts[term]}) {
				return out
			}
			recent++
		}
	}

	return out
}
