package search

import "strings"

// FilterRule suggests partial filter values when any of its keywords
// appears in the query.
type FilterRule struct {
	Keywords []string
	Status   string
	Priority string
	Tags     []string
}

// DefaultFilterRules is the ordered rule table for filter inference.
// Order matters: rules are evaluated left to right and each matching
// rule overwrites the fields it defines, so for a query matching
// several rules the last match wins per field.
var DefaultFilterRules = []FilterRule{
	{Keywords: []string{"ödeme", "fatura", "para"}, Status: "open", Priority: "high", Tags: []string{"payment"}},
	{Keywords: []string{"iade"}, Status: "open", Priority: "medium", Tags: []string{"refund"}},
	{Keywords: []string{"hesap", "giriş", "şifre"}, Status: "open", Tags: []string{"account"}},
	{Keywords: []string{"hata", "sorun", "çalışmıyor"}, Status: "open", Priority: "urgent", Tags: []string{"technical"}},
}

// InferFilters maps query keywords to a suggested partial filter
// using the ordered rule table (last-write-wins per field). A nil
// rule table uses DefaultFilterRules. The zero Filter is returned
// when no rule matches; applying the suggestion is the caller's
// decision, never automatic.
func InferFilters(query string, rules []FilterRule) Filter {
	if rules == nil {
		rules = DefaultFilterRules
	}
	lowered := strings.ToLower(query)

	var out Filter
	for _, rule := range rules {
		if !ruleMatches(rule, lowered) {
			continue
		}
		if rule.Status != "" {
			out.Status = rule.Status
		}
		if rule.Priority != "" {
			out.Priority = rule.Priority
		}
		if len(rule.Tags) > 0 {
			out.Tags = append([]string(nil), rule.Tags...)
		}
	}
	return out
}

func ruleMatches(rule FilterRule, loweredQuery string) bool {
	for _, kw := range rule.Keywords {
		if strings.Contains(loweredQuery, kw) {
			return true
		}
	}
	return false
}
