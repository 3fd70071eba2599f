// Package searchkit is the search suggestion and analytics engine
// behind the admin search surfaces: it records search history,
// tracks term popularity, matches compound filters against searchable
// items, offers typed suggestions while the user types, infers
// filters from query keywords, and computes windowed analytics
// snapshots. All state lives behind an injected persistent store.
package searchkit

import (
	"context"
	"errors"
	"time"

	"github.com/gotrs-io/searchkit/pkg/analytics"
	"github.com/gotrs-io/searchkit/pkg/config"
	"github.com/gotrs-io/searchkit/pkg/metrics"
	"github.com/gotrs-io/searchkit/pkg/search"
	"github.com/gotrs-io/searchkit/pkg/store"
)

// ErrEmptySearch reports a search submitted with no term and no
// filter criteria. It is a validation condition for the caller to
// surface, never an internal failure.
var ErrEmptySearch = errors.New("search requires a term or at least one filter criterion")

// Options configures an Engine. The zero value uses the documented
// defaults throughout.
type Options struct {
	EventLogCap   int
	PopularityCap int
	// TrendWindow is the length of each of the two windows trend
	// classification compares. Defaults to 7 days.
	TrendWindow time.Duration
	Metrics     *metrics.Metrics
	Clock       func() time.Time
	// FilterRules overrides the inference rule table; nil keeps
	// search.DefaultFilterRules.
	FilterRules []search.FilterRule
}

// Engine ties the subsystem together behind one store-backed facade.
type Engine struct {
	store       store.Store
	log         *search.EventLog
	popularity  *search.Popularity
	settings    config.Settings
	metrics     *metrics.Metrics
	clock       func() time.Time
	trendWindow time.Duration
	filterRules []search.FilterRule
}

// New creates an engine backed by st, loading persisted history,
// popularity, and settings. Corrupt or missing blobs degrade to
// empty state.
func New(ctx context.Context, st store.Store, opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	trendWindow := opts.TrendWindow
	if trendWindow <= 0 {
		trendWindow = 7 * 24 * time.Hour
	}

	return &Engine{
		store:       st,
		log:         search.NewEventLog(ctx, st, opts.EventLogCap, clock),
		popularity:  search.NewPopularity(ctx, st, opts.PopularityCap, clock),
		settings:    config.LoadSettings(ctx, st),
		metrics:     opts.Metrics,
		clock:       clock,
		trendWindow: trendWindow,
		filterRules: opts.FilterRules,
	}
}

// Search applies the filter to items in order, records the search
// event, and updates term popularity. A filter with no criteria is
// rejected with ErrEmptySearch before anything executes.
func (e *Engine) Search(ctx context.Context, f search.Filter, items []search.Item) ([]search.Item, error) {
	if f.IsZero() {
		e.metrics.ObserveRejectedSearch()
		return nil, ErrEmptySearch
	}

	start := e.clock()
	matched := search.Apply(items, f)
	elapsed := e.clock().Sub(start)

	e.log.Record(ctx, f.SearchTerm, len(matched), int(elapsed.Milliseconds()), f.Snapshot())
	if f.SearchTerm != "" {
		e.popularity.Observe(ctx, f.SearchTerm)
	}
	e.metrics.ObserveSearch(elapsed)

	return matched, nil
}

// Suggest returns the ranked suggestion list for a partial query,
// capped at the configured maximum. Disabled by settings, it returns
// nothing.
func (e *Engine) Suggest(partial string) []search.Suggestion {
	if !e.settings.EnableSmartSuggestions {
		return nil
	}
	e.metrics.ObserveSuggestion()

	counts := make(map[string]int)
	for _, entry := range e.popularity.Top(e.popularity.Len()) {
		counts[entry.Term] = entry.Count
	}

	return search.Suggest(partial, search.DefaultMinQueryLength, e.settings.MaxSuggestions, search.SuggestInput{
		Recent: e.log.Events(),
		Counts: counts,
	})
}

// InferFilters maps query keywords to a suggested partial filter.
// The caller decides whether to apply it; it is never merged into an
// active filter automatically.
func (e *Engine) InferFilters(query string) search.Filter {
	if !e.settings.EnableFilterSuggestions {
		return search.Filter{}
	}
	return search.InferFilters(query, e.filterRules)
}

// Analytics computes a snapshot over the trailing window. Disabled by
// settings, it returns an empty snapshot for the window.
func (e *Engine) Analytics(windowDays int) *analytics.Snapshot {
	if !e.settings.EnableAnalytics {
		return analytics.Compute(nil, windowDays)
	}

	start := e.clock()
	snap := analytics.Compute(e.log.Window(windowDays), windowDays)
	e.metrics.ObserveAnalytics(e.clock().Sub(start))
	return snap
}

// TopTerms returns the n most popular terms with trends classified
// from the event log over two adjacent trend windows.
func (e *Engine) TopTerms(n int) []search.Entry {
	entries := e.popularity.Top(n)
	events := e.log.Events()
	now := e.clock()
	for i := range entries {
		entries[i].Trend = search.ClassifyTrend(entries[i].Term, events, e.trendWindow, now)
	}
	return entries
}

// History returns the retained search events in insertion order.
func (e *Engine) History() []search.Event {
	return e.log.Events()
}

// ClearHistory drops the event log and popularity table, in memory
// and in the store.
func (e *Engine) ClearHistory(ctx context.Context) error {
	if err := e.log.Clear(ctx); err != nil {
		return err
	}
	return e.popularity.Clear(ctx)
}

// Settings returns the active runtime settings.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// UpdateSettings clamps, applies, and persists new runtime settings.
func (e *Engine) UpdateSettings(ctx context.Context, s config.Settings) error {
	e.settings = s.Clamp()
	return config.SaveSettings(ctx, e.store, e.settings)
}
