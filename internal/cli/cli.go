package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/swim-archive/internal/api"
	"github.com/pfrederiksen/swim-archive/internal/archive"
	"github.com/pfrederiksen/swim-archive/internal/config"
	"github.com/pfrederiksen/swim-archive/internal/fetcher"
	"github.com/pfrederiksen/swim-archive/internal/filter"
	"github.com/pfrederiksen/swim-archive/internal/harvest"
	"github.com/pfrederiksen/swim-archive/internal/logger"
	"github.com/pfrederiksen/swim-archive/internal/result"
	"github.com/pfrederiksen/swim-archive/internal/storage"
)

const (
	ExitSuccess         = 0
	ExitError           = 1
	ExitNewCompetitions = 2
)

var (
	flagBaseURL  string
	flagDataDir  string
	flagFormat   string
	flagMaxPages int
	flagVerbose  bool

	flagClub      string
	flagSort      string
	flagDistances []string
	flagStrokes   []string
	flagCourses   []string
	flagFrom      string
	flagTo        string

	flagOutput  string
	flagRefresh bool
	flagAddr    string

	cfg      *config.Config
	exitCode = ExitSuccess
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swim-archive",
		Short: "Search a swimming results archive",
		Long: `A CLI tool to search a swimming federation results archive.
Finds an athlete's results across meet pages, reduces them to personal bests,
and harvests competition download links year by year.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", "", "Archive site root (default from config)")
	pf.StringVar(&flagDataDir, "data-dir", "", "Data directory for exports and snapshots (default from config)")
	pf.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	pf.IntVar(&flagMaxPages, "max-pages", 0, "Maximum result pages visited per search (default from config)")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newSearchCmd(), newPersonalBestsCmd(), newScrapeCmd(), newHarvestCmd(), newServeCmd())
	return cmd
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Find every result for an athlete",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}
	cmd.Flags().StringVar(&flagClub, "club", "", "Only keep results for this club (substring)")
	addRecordFlags(cmd)
	return cmd
}

func newPersonalBestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pbs NAME",
		Aliases: []string{"personal-bests"},
		Short:   "Show an athlete's fastest time per event and course",
		Args:    cobra.ExactArgs(1),
		RunE:    runPersonalBests,
	}
	cmd.Flags().StringVar(&flagClub, "club", "", "Only keep results for this club (substring)")
	addRecordFlags(cmd)
	return cmd
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape URL",
		Short: "Extract every result row from one results page",
		Args:  cobra.ExactArgs(1),
		RunE:  runScrape,
	}
	addRecordFlags(cmd)
	return cmd
}

// addRecordFlags registers the sorting and filtering flags shared by every
// command that prints records.
func addRecordFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&flagSort, "sort", "", "Sort by: event, time or name")
	f.StringSliceVar(&flagDistances, "distance", nil, "Only keep these distances, e.g. 100m (repeatable)")
	f.StringSliceVar(&flagStrokes, "stroke", nil, "Only keep these strokes, e.g. free, fly, im (repeatable)")
	f.StringSliceVar(&flagCourses, "course", nil, "Only keep this course: scm or lcm")
	f.StringVar(&flagFrom, "from", "", "Only keep results on or after this date (YYYY-MM-DD)")
	f.StringVar(&flagTo, "to", "", "Only keep results on or before this date (YYYY-MM-DD)")
}

func newHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Collect competition download links for every year into a CSV file",
		Long: `Walks the archive's results index year by year and writes every
competition download link to a CSV file in the data directory.
Exits with status 2 when competitions were found that the previous harvest did not have.`,
		Args: cobra.NoArgs,
		RunE: runHarvest,
	}
	cmd.Flags().StringVar(&flagOutput, "output", storage.DefaultCSVFile, "CSV file name inside the data directory")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Refresh the snapshot without reporting new competitions")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve search, personal bests and page scraping over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config)")
	return cmd
}

// loadConfig layers command-line flags over the loaded configuration.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}

	if flagBaseURL != "" {
		loaded.BaseURL = flagBaseURL
	}
	if flagDataDir != "" {
		loaded.DataDir = flagDataDir
	}
	if flagMaxPages > 0 {
		loaded.MaxPages = flagMaxPages
	}
	if flagAddr != "" {
		loaded.Addr = flagAddr
	}

	level := logger.ParseLevel(loaded.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	cfg = loaded
	return nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

func sortOrder() (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(flagSort)))
	switch order {
	case "", SortByEvent, SortByTime, SortByName:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort: %s (must be 'event', 'time' or 'name')", flagSort)
}

func newArchive() *archive.Archive {
	return archive.New(fetcher.New(cfg.SearchFetcherOptions()), cfg.BaseURL, cfg.MaxPages)
}

func runSearch(cmd *cobra.Command, args []string) error {
	return runRecords(cmd, func(ctx context.Context, a *archive.Archive) ([]result.Record, error) {
		return a.SearchAthlete(ctx, args[0], flagClub)
	}, &OutputResult{Athlete: args[0], Club: flagClub})
}

func runPersonalBests(cmd *cobra.Command, args []string) error {
	return runRecords(cmd, func(ctx context.Context, a *archive.Archive) ([]result.Record, error) {
		return a.PersonalBests(ctx, args[0], flagClub)
	}, &OutputResult{Athlete: args[0], Club: flagClub, PersonalBests: true})
}

func runScrape(cmd *cobra.Command, args []string) error {
	return runRecords(cmd, func(ctx context.Context, a *archive.Archive) ([]result.Record, error) {
		return a.ScrapePage(ctx, args[0])
	}, &OutputResult{Source: args[0]})
}

// runRecords runs one archive query and writes the records it returns.
func runRecords(cmd *cobra.Command, query func(context.Context, *archive.Archive) ([]result.Record, error), out *OutputResult) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	order, err := sortOrder()
	if err != nil {
		return err
	}
	f, err := filter.Parse(flagDistances, flagStrokes, flagCourses, flagFrom, flagTo)
	if err != nil {
		return err
	}
	if !f.IsEmpty() {
		logger.Debug("Filtering records", logger.Fields{"filter": f.String()})
	}

	records, err := query(cmd.Context(), newArchive())
	if err != nil {
		return err
	}
	records = f.Apply(records)
	sortRecords(records, order)

	out.CheckedAt = time.Now().UTC()
	out.Records = records
	out.Count = len(records)

	return WriteOutput(cmd.OutOrStdout(), out, format, flagVerbose)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	h := harvest.New(fetcher.New(cfg.HarvestFetcherOptions()), cfg.BaseURL, cfg.HarvestDelay)
	comps, err := h.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("harvesting: %w", err)
	}

	previous, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	fresh := previous.NewSince(comps)
	if flagRefresh {
		fresh = nil
	}

	path, err := store.SaveCompetitionsCSV(comps, flagOutput)
	if err != nil {
		return fmt.Errorf("saving csv: %w", err)
	}
	if err := store.SaveSnapshot(comps); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	out := &HarvestResult{
		HarvestedAt:     time.Now().UTC(),
		CSVPath:         path,
		Count:           len(comps),
		Competitions:    comps,
		NewCompetitions: fresh,
		NewCount:        len(fresh),
	}
	if err := WriteHarvest(cmd.OutOrStdout(), out, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(fresh) > 0 {
		exitCode = ExitNewCompetitions
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	return api.Run(ctx, cfg)
}

// run executes the CLI with args and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	exitCode = ExitSuccess

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return exitCode
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
