package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gotrs-io/searchkit"
	"github.com/gotrs-io/searchkit/pkg/config"
	"github.com/gotrs-io/searchkit/pkg/search"
	"github.com/gotrs-io/searchkit/pkg/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "searchkit",
	Short: "Search history, suggestions, and analytics for GOTRS installations",
	Long: `searchkit inspects and manages the search subsystem state of a
GOTRS installation: recorded search history, term popularity, typed
suggestions, and windowed analytics snapshots.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

// newEngine connects to the configured Redis instance and loads the
// persisted engine state.
func newEngine(ctx context.Context) (*searchkit.Engine, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	st := store.NewRedisStore(store.RedisOptions{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		KeyPrefix:    cfg.Redis.KeyPrefix,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})
	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
	}

	eng := searchkit.New(ctx, st, searchkit.Options{
		EventLogCap:   cfg.Engine.EventLogCap,
		PopularityCap: cfg.Engine.PopularityCap,
		TrendWindow:   time.Duration(cfg.Engine.TrendWindowDays) * 24 * time.Hour,
	})
	return eng, func() { st.Close() }, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <partial-query>",
	Short: "Show suggestions for a partial query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		return printJSON(eng.Suggest(args[0]))
	},
}

var topCmd = &cobra.Command{
	Use:   "top [n]",
	Short: "Show the most popular search terms with trends",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 10
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed < 1 {
				return fmt.Errorf("invalid count %q", args[0])
			}
			n = parsed
		}

		eng, closeFn, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		return printJSON(eng.TopTerms(n))
	},
}

var analyticsDays int

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Compute an analytics snapshot over the trailing window",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		return printJSON(eng.Analytics(analyticsDays))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the retained search event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		return printJSON(eng.History())
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the search history and popularity table",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := eng.ClearHistory(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("search history cleared")
		return nil
	},
}

var recordResults int

// backfillItem is a stand-in item so backfilled searches can carry a
// result count. Its title echoes the term so the filter matches it.
type backfillItem struct {
	n     int
	title string
}

func (b backfillItem) ID() string { return strconv.Itoa(b.n) }
func (b backfillItem) Type() string { return "backfill" }
func (b backfillItem) Title() string { return b.title }
func (b backfillItem) Description() string { return "" }
func (b backfillItem) Status() string { return "" }
func (b backfillItem) Priority() string { return "" }
func (b backfillItem) AssignedTo() string { return "" }
func (b backfillItem) Tags() []string { return nil }
func (b backfillItem) CreatedAt() time.Time { return time.Time{} }
func (b backfillItem) Amount() (float64, bool) { return 0, false }

func fakeItems(term string, n int) []search.Item {
	items := make([]search.Item, n)
	for i := range items {
		items[i] = backfillItem{n: i, title: term}
	}
	return items
}

var recordCmd = &cobra.Command{
	Use:   "record <term>",
	Short: "Record a search event (for backfills and testing)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		_, err = eng.Search(cmd.Context(), search.Filter{SearchTerm: args[0]}, fakeItems(args[0], recordResults))
		if err != nil {
			return err
		}
		fmt.Printf("recorded %q with %d results\n", args[0], recordResults)
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or change runtime settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the active runtime settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		return printJSON(eng.Settings())
	},
}

var settingsJSON string

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update runtime settings from a JSON object",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		s := eng.Settings()
		if err := json.Unmarshal([]byte(settingsJSON), &s); err != nil {
			return fmt.Errorf("invalid settings JSON: %w", err)
		}
		if err := eng.UpdateSettings(cmd.Context(), s); err != nil {
			return err
		}
		return printJSON(eng.Settings())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults plus SEARCHKIT_* env)")

	analyticsCmd.Flags().IntVar(&analyticsDays, "days", 30, "trailing window in days (7/30/90/365)")
	recordCmd.Flags().IntVar(&recordResults, "results", 0, "result count for the recorded event")

	settingsSetCmd.Flags().StringVar(&settingsJSON, "json", "{}", "settings fields to change, as JSON")

	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(suggestCmd, topCmd, analyticsCmd, historyCmd, clearCmd, recordCmd, settingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
