package config

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gotrs-io/searchkit/pkg/store"
)

// SettingsKey is the store key the runtime settings blob lives under.
const SettingsKey = "search:settings"

// Settings are the operator-tunable runtime options. Unknown keys in
// the persisted blob are ignored; missing keys keep their defaults;
// out-of-range values are clamped rather than rejected.
type Settings struct {
	EnableSmartSuggestions  bool `json:"enableSmartSuggestions"`
	EnableFilterSuggestions bool `json:"enableFilterSuggestions"`
	EnableAnalytics         bool `json:"enableAnalytics"`
	MaxSuggestions          int  `json:"maxSuggestions"`
	SearchTimeoutMs         int  `json:"searchTimeoutMs"`
	EnableCaching           bool `json:"enableCaching"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		EnableSmartSuggestions:  true,
		EnableFilterSuggestions: true,
		EnableAnalytics:         true,
		MaxSuggestions:          8,
		SearchTimeoutMs:         300,
		EnableCaching:           true,
	}
}

// Clamp forces the numeric options into their documented ranges.
func (s Settings) Clamp() Settings {
	if s.MaxSuggestions < 1 {
		s.MaxSuggestions = 1
	}
	if s.MaxSuggestions > 20 {
		s.MaxSuggestions = 20
	}
	if s.SearchTimeoutMs < 100 {
		s.SearchTimeoutMs = 100
	}
	if s.SearchTimeoutMs > 1000 {
		s.SearchTimeoutMs = 1000
	}
	return s
}

// LoadSettings reads the persisted settings, falling back to defaults
// when the blob is absent or corrupt. It never fails the caller.
func LoadSettings(ctx context.Context, st store.Store) Settings {
	defaults := DefaultSettings()

	blob, ok, err := st.Get(ctx, SettingsKey)
	if err != nil {
		log.Printf("WARNING: settings read failed, using defaults: %v", err)
		return defaults
	}
	if !ok {
		return defaults
	}

	// Unmarshal over the defaults so missing keys keep them.
	loaded := defaults
	if err := json.Unmarshal([]byte(blob), &loaded); err != nil {
		log.Printf("WARNING: settings blob corrupt, using defaults: %v", err)
		return defaults
	}
	return loaded.Clamp()
}

// SaveSettings persists the settings blob, clamped.
func SaveSettings(ctx context.Context, st store.Store, s Settings) error {
	data, err := json.Marshal(s.Clamp())
	if err != nil {
		return err
	}
	return st.Set(ctx, SettingsKey, string(data))
}
