package search

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gotrs-io/searchkit/pkg/store"
)

// EventLogKey is the store key the event log blob lives under.
const EventLogKey = "search:history"

// DefaultEventLogCap bounds the event log when no cap is configured.
const DefaultEventLogCap = 100

// EventLog is an append-only, size-bounded record of past searches.
// It loads its state from the store once at construction and persists
// the full log after every record; a corrupt or missing blob is
// treated as an empty log.
type EventLog struct {
	mu     sync.Mutex
	store  store.Store
	cap    int
	clock  func() time.Time
	events []Event
}

// NewEventLog creates an event log backed by st. A cap below 1 falls
// back to DefaultEventLogCap; a nil clock uses time.Now.
func NewEventLog(ctx context.Context, st store.Store, cap int, clock func() time.Time) *EventLog {
	if cap < 1 {
		cap = DefaultEventLogCap
	}
	if clock == nil {
		clock = time.Now
	}

	l := &EventLog{
		store: st,
		cap:   cap,
		clock: clock,
	}
	l.load(ctx)
	return l
}

func (l *EventLog) load(ctx context.Context) {
	blob, ok, err := l.store.Get(ctx, EventLogKey)
	if err != nil {
		log.Printf("WARNING: search history read failed, starting empty: %v", err)
		return
	}
	if !ok {
		return
	}

	var events []Event
	if err := json.Unmarshal([]byte(blob), &events); err != nil {
		log.Printf("WARNING: search history blob corrupt, starting empty: %v", err)
		return
	}
	if len(events) > l.cap {
		events = events[len(events)-l.cap:]
	}
	l.events = events
}

// Record appends a new event with the current timestamp, evicting the
// oldest entries when over cap, and persists the log. A search with
// an empty term and no filter criteria is never recorded; Record
// reports whether an event was appended.
func (l *EventLog) Record(ctx context.Context, term string, resultCount, durationMs int, filters map[string]string) (Event, bool) {
	if term == "" && len(filters) == 0 {
		log.Printf("WARNING: refusing to record criterion-less search")
		return Event{}, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	event := Event{
		ID:          uuid.NewString(),
		Term:        term,
		Timestamp:   l.clock(),
		ResultCount: resultCount,
		DurationMs:  durationMs,
		Filters:     filters,
	}

	l.events = append(l.events, event)
	if len(l.events) > l.cap {
		l.events = l.events[len(l.events)-l.cap:]
	}
	l.persist(ctx)

	return event, true
}

// persist writes the full log. Failures are non-fatal: the in-memory
// state stays correct even when it could not be durably saved.
// Callers must hold l.mu.
func (l *EventLog) persist(ctx context.Context) {
	data, err := json.Marshal(l.events)
	if err != nil {
		log.Printf("WARNING: search history marshal failed: %v", err)
		return
	}
	if err := l.store.Set(ctx, EventLogKey, string(data)); err != nil {
		log.Printf("WARNING: search history write failed: %v", err)
	}
}

// Events returns a copy of the full log in insertion order.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Window returns the events recorded within the trailing span of the
// given number of days, preserving insertion order.
func (l *EventLog) Window(days int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.clock().AddDate(0, 0, -days)
	var out []Event
	for _, e := range l.events {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Len reports the number of retained events.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.events)
}

// Clear drops all events in memory and removes the persisted blob.
func (l *EventLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = nil
	return l.store.Remove(ctx, EventLogKey)
}
