// Package search implements the suggestion and history core of the
// engine: the bounded search event log, term popularity tracking,
// compound filter matching, typed suggestions, and keyword-driven
// filter inference.
package search

import "time"

// Event is one completed search submission. Events are immutable once
// recorded; the log evicts them oldest-first when over its cap.
type Event struct {
	ID          string            `json:"id"`
	Term        string            `json:"term"`
	Timestamp   time.Time         `json:"timestamp"`
	ResultCount int               `json:"resultCount"`
	DurationMs  int               `json:"durationMs"`
	Filters     map[string]string `json:"filters,omitempty"`
}

// Successful reports whether the search returned any results.
func (e Event) Successful() bool {
	return e.ResultCount > 0
}
