// Package analytics computes point-in-time snapshots over a windowed
// view of the search event log. Every snapshot is recomputed from
// scratch; nothing here mutates log or tracker state.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/gotrs-io/searchkit/pkg/search"
)

// LeaderboardSize bounds the popular-terms list in a snapshot.
const LeaderboardSize = 10

// Snapshot is one analytics computation over a trailing window.
type Snapshot struct {
	TotalSearches       int             `json:"totalSearches"`
	SuccessfulSearches  int             `json:"successfulSearches"`
	FailedSearches      int             `json:"failedSearches"`
	AverageSearchTimeMs float64         `json:"averageSearchTimeMs"`
	PopularSearches     []TermStats     `json:"popularSearches"`
	CategoryStats       []CategoryStats `json:"categoryStats"`
	HourlyStats         [24]HourBucket  `json:"hourlyStats"`
	WindowDays          int             `json:"windowDays"`
}

// TermStats is one leaderboard row.
type TermStats struct {
	Term        string    `json:"term"`
	Count       int       `json:"count"`
	SuccessRate float64   `json:"successRate"`
	LastUsed    time.Time `json:"lastUsed"`
}

// CategoryStats aggregates the window for one category.
type CategoryStats struct {
	Category    string  `json:"category"`
	Searches    int     `json:"searches"`
	SuccessRate float64 `json:"successRate"`
	AvgResults  float64 `json:"avgResults"`
}

// HourBucket aggregates searches by hour of day.
type HourBucket struct {
	Hour          int     `json:"hour"`
	Searches      int     `json:"searches"`
	AvgDurationMs float64 `json:"avgDurationMs"`
}

// Compute builds a snapshot from the given windowed events. It is
// pure: zero events yield a zero snapshot, never a division by zero.
func Compute(events []search.Event, windowDays int) *Snapshot {
	snap := &Snapshot{WindowDays: windowDays}
	for i := range snap.HourlyStats {
		snap.HourlyStats[i].Hour = i
	}

	snap.TotalSearches = len(events)
	var totalDuration int
	for _, e := range events {
		if e.Successful() {
			snap.SuccessfulSearches++
		} else {
			snap.FailedSearches++
		}
		totalDuration += e.DurationMs
	}
	if snap.TotalSearches > 0 {
		snap.AverageSearchTimeMs = float64(totalDuration) / float64(snap.TotalSearches)
	}

	snap.PopularSearches = leaderboard(events)
	snap.CategoryStats = categoryStats(events)
	fillHourly(snap, events)

	return snap
}

func leaderboard(events []search.Event) []TermStats {
	type group struct {
		count      int
		successful int
		lastUsed   time.Time
	}
	groups := make(map[string]*group)
	for _, e := range events {
		if e.Term == "" {
			continue
		}
		g, ok := groups[e.Term]
		if !ok {
			g = &group{}
			groups[e.Term] = g
		}
		g.count++
		if e.Successful() {
			g.successful++
		}
		if e.Timestamp.After(g.lastUsed) {
			g.lastUsed = e.Timestamp
		}
	}

	stats := make([]TermStats, 0, len(groups))
	for term, g := range groups {
		stats = append(stats, TermStats{
			Term:        term,
			Count:       g.count,
			SuccessRate: float64(g.successful) / float64(g.count) * 100,
			LastUsed:    g.lastUsed,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].LastUsed.After(stats[j].LastUsed)
	})
	if len(stats) > LeaderboardSize {
		stats = stats[:LeaderboardSize]
	}
	return stats
}

// categoryStats fills the static category table by keyword-matching
// each event's term. Categories nothing matched stay at zero.
func categoryStats(events []search.Event) []CategoryStats {
	out := make([]CategoryStats, len(search.DefaultCategoryRules))
	for i, rule := range search.DefaultCategoryRules {
		out[i].Category = rule.Name

		var searches, successful, results int
		for _, e := range events {
			if !termInCategory(e.Term, rule) {
				continue
			}
			searches++
			if e.Successful() {
				successful++
			}
			results += e.ResultCount
		}
		out[i].Searches = searches
		if searches > 0 {
			out[i].SuccessRate = float64(successful) / float64(searches) * 100
			out[i].AvgResults = float64(results) / float64(searches)
		}
	}
	return out
}

func termInCategory(term string, rule search.CategoryRule) bool {
	lowered := strings.ToLower(term)
	for _, kw := range rule.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func fillHourly(snap *Snapshot, events []search.Event) {
	var durations [24]int
	for _, e := range events {
		h := e.Timestamp.Hour()
		snap.HourlyStats[h].Searches++
		durations[h] += e.DurationMs
	}
	for h := range snap.HourlyStats {
		if n := snap.HourlyStats[h].Searches; n > 0 {
			snap.HourlyStats[h].AvgDurationMs = float64(durations[h]) / float64(n)
		}
	}
}
