package search

import (
	"strconv"
	"strings"
	"time"
)

// Item is the abstract searchable record the matcher evaluates.
// Amount reports false for item kinds that carry no monetary value
// (e.g. tickets, as opposed to payments).
type Item interface {
	ID() string
	Type() string
	Title() string
	Description() string
	Status() string
	Priority() string
	AssignedTo() string
	Tags() []string
	CreatedAt() time.Time
	Amount() (float64, bool)
}

// Filter is the compound search predicate supplied by the caller.
// Empty fields impose no constraint. Date and amount bounds are kept
// as strings because they arrive from form inputs; unparseable values
// are treated as absent rather than rejecting the item.
type Filter struct {
	SearchTerm   string            `json:"searchTerm"`
	SearchType   string            `json:"searchType"`
	DateRange    DateRange         `json:"dateRange"`
	Status       string            `json:"status"`
	Priority     string            `json:"priority"`
	AssignedTo   string            `json:"assignedTo"`
	Tags         []string          `json:"tags"`
	AmountRange  AmountRange       `json:"amountRange"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

// DateRange bounds the item creation time, inclusive on both ends.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AmountRange bounds the item amount, inclusive on both ends.
type AmountRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// IsZero reports whether the filter carries no criteria at all. A
// SearchType of "all" is the unconstrained default, not a criterion.
func (f Filter) IsZero() bool {
	return f.SearchTerm == "" &&
		(f.SearchType == "" || f.SearchType == "all") &&
		f.DateRange.Start == "" && f.DateRange.End == "" &&
		f.Status == "" &&
		f.Priority == "" &&
		f.AssignedTo == "" &&
		len(f.Tags) == 0 &&
		f.AmountRange.Min == "" && f.AmountRange.Max == "" &&
		len(f.CustomFields) == 0
}

// Snapshot flattens the populated filter fields into a string map for
// recording alongside the search event.
func (f Filter) Snapshot() map[string]string {
	snap := make(map[string]string)
	if f.SearchType != "" && f.SearchType != "all" {
		snap["searchType"] = f.SearchType
	}
	if f.Status != "" {
		snap["status"] = f.Status
	}
	if f.Priority != "" {
		snap["priority"] = f.Priority
	}
	if f.AssignedTo != "" {
		snap["assignedTo"] = f.AssignedTo
	}
	if len(f.Tags) > 0 {
		snap["tags"] = strings.Join(f.Tags, ",")
	}
	if f.DateRange.Start != "" {
		snap["dateStart"] = f.DateRange.Start
	}
	if f.DateRange.End != "" {
		snap["dateEnd"] = f.DateRange.End
	}
	if f.AmountRange.Min != "" {
		snap["amountMin"] = f.AmountRange.Min
	}
	if f.AmountRange.Max != "" {
		snap["amountMax"] = f.AmountRange.Max
	}
	for k, v := range f.CustomFields {
		snap["custom:"+k] = v
	}
	if len(snap) == 0 {
		return nil
	}
	return snap
}

// Matches evaluates the filter against one item: a logical AND across
// every populated field. It is total and side-effect free.
func Matches(item Item, f Filter) bool {
	return matchesTerm(item, f.SearchTerm) &&
		matchesType(item, f.SearchType) &&
		matchesExact(item.Status(), f.Status) &&
		matchesExact(item.Priority(), f.Priority) &&
		matchesExact(item.AssignedTo(), f.AssignedTo) &&
		matchesTags(item.Tags(), f.Tags) &&
		matchesDateRange(item.CreatedAt(), f.DateRange) &&
		matchesAmountRange(item, f.AmountRange)
}

// Apply filters items in order, returning the matches. Input order is
// preserved.
func Apply(items []Item, f Filter) []Item {
	var out []Item
	for _, item := range items {
		if Matches(item, f) {
			out = append(out, item)
		}
	}
	return out
}

func matchesTerm(item Item, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(item.Title()), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description()), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(item.AssignedTo()), needle) {
		return true
	}
	for _, tag := range item.Tags() {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func matchesType(item Item, searchType string) bool {
	if searchType == "" || searchType == "all" {
		return true
	}
	return item.Type() == searchType
}

func matchesExact(got, want string) bool {
	return want == "" || got == want
}

func matchesTags(itemTags, filterTags []string) bool {
	if len(filterTags) == 0 {
		return true
	}
	for _, ft := range filterTags {
		for _, it := range itemTags {
			if it == ft {
				return true
			}
		}
	}
	return false
}

func matchesDateRange(created time.Time, r DateRange) bool {
	if start, ok := parseDate(r.Start); ok && created.Before(start) {
		return false
	}
	if end, ok := parseDate(r.End); ok && created.After(end) {
		return false
	}
	return true
}

// parseDate accepts RFC 3339 timestamps and plain dates. Anything
// else is treated as an absent bound.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func matchesAmountRange(item Item, r AmountRange) bool {
	min, hasMin := parseAmount(r.Min)
	max, hasMax := parseAmount(r.Max)
	if !hasMin && !hasMax {
		return true
	}

	amount, ok := item.Amount()
	if !ok {
		// An actively constrained amount filter excludes items that
		// carry no amount.
		return false
	}
	if hasMin && amount < min {
		return false
	}
	if hasMax && amount > max {
		return false
	}
	return true
}

// parseAmount treats non-numeric bounds as absent.
func parseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
