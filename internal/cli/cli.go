package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pfrederiksen/skate-results/internal/catalog"
	"github.com/pfrederiksen/skate-results/internal/filter"
	"github.com/pfrederiksen/skate-results/internal/logger"
	"github.com/pfrederiksen/skate-results/internal/scraper"
	"github.com/pfrederiksen/skate-results/internal/search"
	"github.com/pfrederiksen/skate-results/internal/server"
	"github.com/pfrederiksen/skate-results/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNotFound = 2
)

// errNotFound ends a search that completed without results.
var errNotFound = errors.New("no results found")

var (
	flagCatalog     string
	flagLogLevel    string
	flagVerbose     bool
	flagFormat      string
	flagSort        string
	flagDataDir     string
	flagTimeout     time.Duration
	flagDelay       time.Duration
	flagAddr        string
	flagStaticDir   string
	flagEnv         string
	flagSeason      string
	flagCompetition string
	flagOrganizer   string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skate-results",
		Short: "Search figure skating results on jsfresults.com",
		Long: `A CLI tool to search a skater's competition results on the Japan Skating
Federation results site. Result tables across seasons and page formats are
normalized into placements, total scores and segment scores.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogging,
	}

	cmd.PersistentFlags().StringVar(&flagCatalog, "catalog", os.Getenv("SKATE_CATALOG"), "YAML source catalog (default: built-in)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output and debug logging")

	cmd.AddCommand(newSearchCmd(), newServeCmd(), newSourcesCmd())
	return cmd
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Search a skater's results",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortBySeason), "Sort order: season, rank or score")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", envOr("SKATE_DATA_DIR", storage.DefaultDataDir), "Data directory for memoized event months")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", search.DefaultConfig.Timeout, "Limit for the whole search")
	cmd.Flags().DurationVar(&flagDelay, "delay", search.DefaultConfig.RequestDelay, "Pause between page requests")
	addFilterFlags(cmd)

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP search service",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", ":"+envOr("PORT", "3006"), "Listen address")
	cmd.Flags().StringVar(&flagStaticDir, "static-dir", os.Getenv("STATIC_DIR"), "Directory with index.html and static assets")
	cmd.Flags().StringVar(&flagEnv, "environment", envOr("SKATE_ENV", "development"), "Environment name reported by /debug")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", envOr("SKATE_DATA_DIR", storage.DefaultDataDir), "Data directory for memoized event months")

	return cmd
}

func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the competitions searched",
		Args:  cobra.NoArgs,
		RunE:  runSources,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	addFilterFlags(cmd)

	return cmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagSeason, "season", "", "Seasons to search, e.g. 2024-25, 2023 or 2021..2023")
	cmd.Flags().StringVar(&flagCompetition, "competition", "", "Comma separated competition name fragments")
	cmd.Flags().StringVar(&flagOrganizer, "organizer", "", "Comma separated organizers, e.g. 国内 or ISU")
}

// loadSources loads the catalog and applies the filter flags.
func loadSources() ([]*catalog.Source, error) {
	sources, err := catalog.LoadOrDefault(flagCatalog)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	f := filter.NewFilter()
	if flagSeason != "" {
		if f.Seasons, err = filter.ParseSeasons(flagSeason); err != nil {
			return nil, err
		}
	}
	f.Competitions = filter.ParseList(flagCompetition)
	f.Organizers = filter.ParseList(flagOrganizer)

	sources = f.Apply(sources)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no competitions match (%s)", f)
	}
	logger.Debug("Catalog loaded", logger.Fields{
		"sources": len(sources),
		"filter":  f.String(),
	})
	return sources, nil
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, ok := logger.ParseLevel(flagLogLevel)
	if !ok {
		return fmt.Errorf("invalid log level: %s", flagLogLevel)
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	return nil
}

func parseFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// openMonths seeds a month cache from the data directory. The returned store
// is nil when the directory cannot be used; searching still works.
func openMonths(dataDir string) (*catalog.MonthCache, *storage.Storage) {
	months := catalog.NewMonthCache()

	store, err := storage.New(dataDir)
	if err != nil {
		logger.Warn("Month cache disabled", logger.Fields{"error": err.Error()})
		return months, nil
	}

	periods, err := store.LoadPeriods()
	if err != nil {
		logger.Warn("Ignoring unreadable month cache", logger.Fields{"error": err.Error()})
		return months, store
	}
	months.Seed(periods.Months)
	return months, store
}

func saveMonths(store *storage.Storage, months *catalog.MonthCache) {
	if store == nil {
		return
	}
	if err := store.SavePeriods(months.Snapshot()); err != nil {
		logger.Warn("Saving month cache failed", logger.Fields{"error": err.Error()})
	}
}

// runSearch is the search command logic
func runSearch(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("a skater name is required")
	}

	format, err := parseFormat()
	if err != nil {
		return err
	}
	order := SortOrder(strings.ToLower(flagSort))
	if !order.valid() {
		return fmt.Errorf("invalid sort order: %s (must be 'season', 'rank' or 'score')", flagSort)
	}

	sources, err := loadSources()
	if err != nil {
		return err
	}

	months, store := openMonths(flagDataDir)

	cfg := search.DefaultConfig
	cfg.Timeout = flagTimeout
	cfg.RequestDelay = flagDelay
	searcher := search.New(scraper.New(), months, cfg)

	if flagVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Searching %d competitions for %s\n", len(sources), name)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := searcher.SearchWithTimeout(ctx, name, sources)
	saveMonths(store, months)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	sortResults(results, order)

	out := &OutputResult{
		Player:     name,
		SearchedAt: time.Now().UTC(),
		Results:    results,
		Count:      len(results),
	}
	if err := WriteOutput(cmd.OutOrStdout(), out, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(results) == 0 {
		return errNotFound
	}
	return nil
}

// runServe is the serve command logic
func runServe(cmd *cobra.Command, args []string) error {
	sources, err := catalog.LoadOrDefault(flagCatalog)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	months, store := openMonths(flagDataDir)
	defer saveMonths(store, months)

	searcher := search.New(scraper.New(), months, search.DefaultConfig)
	srv := server.New(searcher, sources, server.Config{
		Addr:        flagAddr,
		StaticDir:   flagStaticDir,
		Environment: flagEnv,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving %d competitions on http://localhost%s\n", len(sources), flagAddr)
	return srv.Run(ctx)
}

// runSources is the sources command logic
func runSources(cmd *cobra.Command, args []string) error {
	format, err := parseFormat()
	if err != nil {
		return err
	}

	sources, err := loadSources()
	if err != nil {
		return err
	}

	return WriteSources(cmd.OutOrStdout(), sources, format)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(context.Background(), NewRootCmd()))
}

func run(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errNotFound):
		return ExitNotFound
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitError
	}
}
