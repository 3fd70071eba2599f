// Package metrics instruments the search engine with Prometheus
// counters and histograms. All methods are nil-receiver safe so the
// engine can run unmetered.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks search engine activity.
type Metrics struct {
	searches           prometheus.Counter
	rejectedSearches   prometheus.Counter
	suggestionRequests prometheus.Counter
	searchDuration     prometheus.Histogram
	analyticsDuration  prometheus.Histogram
}

// New creates the metric set, registered with reg. Passing nil
// creates unregistered metrics, which is useful in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		searches: factory.NewCounter(prometheus.CounterOpts{
			Name: "searchkit_searches_total",
			Help: "Completed search submissions",
		}),
		rejectedSearches: factory.NewCounter(prometheus.CounterOpts{
			Name: "searchkit_searches_rejected_total",
			Help: "Searches rejected for having no criteria",
		}),
		suggestionRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "searchkit_suggestion_requests_total",
			Help: "Suggestion computations",
		}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "searchkit_search_duration_seconds",
			Help:    "Time spent matching items per search",
			Buckets: prometheus.DefBuckets,
		}),
		analyticsDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "searchkit_analytics_duration_seconds",
			Help:    "Time spent computing analytics snapshots",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveSearch records one completed search and its duration.
func (m *Metrics) ObserveSearch(d time.Duration) {
	if m == nil {
		return
	}
	m.searches.Inc()
	m.searchDuration.Observe(d.Seconds())
}

// ObserveRejectedSearch records a criterion-less search rejection.
func (m *Metrics) ObserveRejectedSearch() {
	if m == nil {
		return
	}
	m.rejectedSearches.Inc()
}

// ObserveSuggestion records one suggestion computation.
func (m *Metrics) ObserveSuggestion() {
	if m == nil {
		return
	}
	m.suggestionRequests.Inc()
}

// ObserveAnalytics records one snapshot computation and its duration.
func (m *Metrics) ObserveAnalytics(d time.Duration) {
	if m == nil {
		return
	}
	m.analyticsDuration.Observe(d.Seconds())
}
