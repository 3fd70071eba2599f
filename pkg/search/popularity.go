package search

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gotrs-io/searchkit/pkg/store"
)

// PopularityKey is the store key the popularity table lives under.
const PopularityKey = "search:popularity"

// DefaultPopularityCap bounds the popularity table when no cap is
// configured.
const DefaultPopularityCap = 20

// Trend classifies how a term's share of searches is moving.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// trendThreshold is the relative change in window share required
// before a term is classified as moving.
const trendThreshold = 0.05

// Entry is one term in the popularity table. Trend is derived state,
// filled on read; it is never persisted.
type Entry struct {
	Term     string    `json:"term"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"lastUsed"`
	Trend    Trend     `json:"trend,omitempty"`
}

// Popularity maintains a bounded table of term occurrence counts,
// sorted descending by count with ties broken by most recent use.
// Matching is case-sensitive on the literal entered term.
type Popularity struct {
	mu      sync.Mutex
	store   store.Store
	cap     int
	clock   func() time.Time
	entries []Entry
}

// NewPopularity creates a popularity tracker backed by st. A cap
// below 1 falls back to DefaultPopularityCap; a nil clock uses
// time.Now.
func NewPopularity(ctx context.Context, st store.Store, cap int, clock func() time.Time) *Popularity {
	if cap < 1 {
		cap = DefaultPopularityCap
	}
	if clock == nil {
		clock = time.Now
	}

	p := &Popularity{
		store: st,
		cap:   cap,
		clock: clock,
	}
	p.load(ctx)
	return p
}

func (p *Popularity) load(ctx context.Context) {
	blob, ok, err := p.store.Get(ctx, PopularityKey)
	if err != nil {
		log.Printf("WARNING: popularity read failed, starting empty: %v", err)
		return
	}
	if !ok {
		return
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(blob), &entries); err != nil {
		log.Printf("WARNING: popularity blob corrupt, starting empty: %v", err)
		return
	}
	p.entries = entries
	p.sortAndTruncate()
}

// Observe increments the count for term, inserting it with count 1
// when absent, then re-sorts, truncates to cap, and persists.
func (p *Popularity) Observe(ctx context.Context, term string) {
	if term == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock()
	found := false
	for i := range p.entries {
		if p.entries[i].Term == term {
			p.entries[i].Count++
			p.entries[i].LastUsed = now
			found = true
			break
		}
	}
	if !found {
		p.entries = append(p.entries, Entry{
			Term:     term,
			Count:    1,
			LastUsed: now,
		})
	}

	p.sortAndTruncate()
	p.persist(ctx)
}

// sortAndTruncate orders entries by count descending, ties by most
// recent use, and drops everything past the cap. Callers must hold
// p.mu (or have exclusive access during construction).
func (p *Popularity) sortAndTruncate() {
	sort.SliceStable(p.entries, func(i, j int) bool {
		if p.entries[i].Count != p.entries[j].Count {
			return p.entries[i].Count > p.entries[j].Count
		}
		return p.entries[i].LastUsed.After(p.entries[j].LastUsed)
	})
	if len(p.entries) > p.cap {
		p.entries = p.entries[:p.cap]
	}
}

func (p *Popularity) persist(ctx context.Context) {
	data, err := json.Marshal(p.entries)
	if err != nil {
		log.Printf("WARNING: popularity marshal failed: %v", err)
		return
	}
	if err := p.store.Set(ctx, PopularityKey, string(data)); err != nil {
		log.Printf("WARNING: popularity write failed: %v", err)
	}
}

// Top returns a copy of the first n entries. Trends are left at their
// zero value; use ClassifyTrend to fill them from the event log.
func (p *Popularity) Top(n int) []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n > len(p.entries) {
		n = len(p.entries)
	}
	out := make([]Entry, n)
	copy(out, p.entries[:n])
	return out
}

// Count returns the occurrence count for term, zero when absent.
func (p *Popularity) Count(term string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, e := range p.entries {
		if e.Term == term {
			return e.Count
		}
	}
	return 0
}

// Len reports the number of tracked terms.
func (p *Popularity) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.entries)
}

// Clear drops the table in memory and removes the persisted blob.
func (p *Popularity) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = nil
	return p.store.Remove(ctx, PopularityKey)
}

// ClassifyTrend compares a term's share of searches over two adjacent
// equal-length windows ending at now. The term is "up" when its
// recent-window share exceeds its prior-window share by more than 5%
// relative, "down" in the symmetric case, else "stable". A term that
// only appears in the recent window is "up"; one that only appears in
// the prior window is "down".
func ClassifyTrend(term string, events []Event, window time.Duration, now time.Time) Trend {
	recentStart := now.Add(-window)
	priorStart := now.Add(-2 * window)

	var recentTotal, priorTotal int
	var recentTerm, priorTerm int
	for _, e := range events {
		switch {
		case !e.Timestamp.Before(recentStart):
			recentTotal++
			if e.Term == term {
				recentTerm++
			}
		case !e.Timestamp.Before(priorStart):
			priorTotal++
			if e.Term == term {
				priorTerm++
			}
		}
	}

	var recentShare, priorShare float64
	if recentTotal > 0 {
		recentShare = float64(recentTerm) / float64(recentTotal)
	}
	if priorTotal > 0 {
		priorShare = float64(priorTerm) / float64(priorTotal)
	}

	switch {
	case recentShare == 0 && priorShare == 0:
		return TrendStable
	case priorShare == 0:
		return TrendUp
	case recentShare == 0:
		return TrendDown
	case recentShare > priorShare*(1+trendThreshold):
		return TrendUp
	case recentShare < priorShare*(1-trendThreshold):
		return TrendDown
	default:
		return TrendStable
	}
}
