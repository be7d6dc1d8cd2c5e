package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/letaky-tools/letaky/internal/brochure"
	"github.com/letaky-tools/letaky/internal/calendar"
	"github.com/letaky-tools/letaky/internal/config"
	"github.com/letaky-tools/letaky/internal/filter"
	"github.com/letaky-tools/letaky/internal/logger"
	"github.com/letaky-tools/letaky/internal/scraper"
	"github.com/letaky-tools/letaky/internal/storage"
)

const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitNewBrochures = 2
)

// exitError carries a non-zero exit code that is not a failure
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// options holds the root command flags
type options struct {
	configPath string
	baseURL    string
	output     string
	format     string
	sortOrder  string
	shops      []string
	workers    int
	delay      time.Duration
	retries    int
	timezone   string
	newOnly    bool
	icsPath    string
	titles     []string
	validOn    string
	logLevel   string
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "letaky",
		Short: "Collect currently valid brochures from prospektmaschine.de",
		Long: `A CLI tool that collects promotional brochures from a shop directory.
Every shop page is scraped, brochure validity windows are parsed and only
brochures valid right now are written to the listing file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a TOML config file")
	flags.StringVar(&opts.baseURL, "base-url", config.DefaultBaseURL, "Shop directory URL")
	flags.StringVar(&opts.output, "output", config.DefaultOutput, "Listing file to write")
	flags.StringVar(&opts.format, "format", string(FormatText), "Report format: text or json")
	flags.StringVar(&opts.sortOrder, "sort", string(SortByShop), "Report order: date, shop or title")
	flags.StringSliceVar(&opts.shops, "shop", nil, "Only scrape these shops (repeatable)")
	flags.IntVar(&opts.workers, "workers", config.DefaultWorkers, "Shop pages fetched in parallel")
	flags.DurationVar(&opts.delay, "delay", config.DefaultPolitenessDelay, "Minimum delay between requests to the same host")
	flags.IntVar(&opts.retries, "retries", config.DefaultMaxRetries, "Retries for transient fetch failures")
	flags.StringVar(&opts.timezone, "timezone", "", "Timezone for validity dates (default local)")
	flags.BoolVar(&opts.newOnly, "new-only", false, "Report only brochures missing from the previous listing")
	flags.StringVar(&opts.icsPath, "ics", "", "Also write validity windows to this iCalendar file")
	flags.StringArrayVar(&opts.titles, "title", nil, "Only report brochures whose title contains this text (repeatable)")
	flags.StringVar(&opts.validOn, "valid-on", "", "Only report brochures still valid on this date (2006-01-02)")
	flags.StringVar(&opts.logLevel, "log-level", string(config.DefaultLogLevel), "Log level: debug, info, warn or error")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging (same as --log-level debug)")

	cmd.AddCommand(newParseDateCmd())

	return cmd
}

// loadConfig merges the config file with the flags the user actually set
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("shop") {
		cfg.Shops = opts.shops
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("delay") {
		cfg.PolitenessDelay = opts.delay
	}
	if flags.Changed("retries") {
		cfg.MaxRetries = opts.retries
	}
	if flags.Changed("log-level") {
		level, err := logger.ParseLevel(opts.logLevel)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}
	if opts.verbose {
		cfg.LogLevel = logger.LevelDebug
	}
	if flags.Changed("timezone") {
		loc, err := time.LoadLocation(opts.timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone: %w", err)
		}
		cfg.Location = loc
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, opts *options) error {
	format := OutputFormat(strings.ToLower(opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}
	sortOrder := SortOrder(strings.ToLower(opts.sortOrder))
	if !sortOrder.valid() {
		return fmt.Errorf("invalid sort order: %s (must be 'date', 'shop' or 'title')", opts.sortOrder)
	}

	reportFilter, err := buildFilter(opts)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(cfg.LogLevel, cmd.ErrOrStderr()))

	store, err := storage.New(cfg.Output)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	previous, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading previous listing: %w", err)
	}
	logger.Debug("Loaded previous listing", logger.Fields{
		"path":      store.Path(),
		"brochures": len(previous),
	})

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := scraper.New(cfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("scraping: %w", err)
	}
	logger.RecordTiming("scrape.run", time.Since(start))

	if err := store.Save(result.Brochures); err != nil {
		if !errors.Is(err, storage.ErrEmptyListing) {
			return fmt.Errorf("saving listing: %w", err)
		}
		logger.Warn("No brochures extracted, listing not written", logger.Fields{
			"shops":  len(result.ShopURLs),
			"failed": len(result.FailedShops),
		}, nil)
	} else {
		logger.Info("Saved listing", logger.Fields{
			"path":      store.Path(),
			"brochures": len(result.Brochures),
		})
	}

	diff := brochure.Diff(previous, result.Brochures)
	logNewByShop(diff)

	if opts.icsPath != "" {
		if err := writeICS(opts.icsPath, result.Brochures); err != nil {
			return err
		}
	}

	report := &OutputResult{
		CheckedAt:   time.Now(),
		ShopCount:   len(result.ShopURLs),
		FailedShops: result.FailedShops,
		NewOnly:     opts.newOnly,
	}
	reported := result.Brochures
	if opts.newOnly {
		reported = diff.NewBrochures
	}
	if !reportFilter.IsEmpty() {
		logger.Debug("Filtering report", logger.Fields{"filter": reportFilter.String()})
		reported = reportFilter.Apply(reported)
	}
	report.setBrochures(reported, sortOrder)

	if err := WriteOutput(cmd.OutOrStdout(), report, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Info("Run finished", logger.Fields{
		"brochures": len(result.Brochures),
		"new":       len(diff.NewBrochures),
		"metrics":   logger.GetMetricsSnapshot(),
	})

	if opts.newOnly && report.Count > 0 {
		return &exitError{code: ExitNewBrochures}
	}
	return nil
}

// logNewByShop logs how many brochures each shop added since the previous listing
func logNewByShop(diff *brochure.DiffResult) {
	shops := make([]string, 0, len(diff.Shops))
	for shop := range diff.Shops {
		shops = append(shops, shop)
	}
	sort.Strings(shops)

	for _, shop := range shops {
		logger.Info("New brochures", logger.Fields{
			"shop":  shop,
			"count": len(diff.Shops[shop]),
		})
	}
}

// buildFilter turns the report filter flags into a Filter
func buildFilter(opts *options) (*filter.Filter, error) {
	f := filter.NewFilter()
	for _, title := range opts.titles {
		if title = strings.TrimSpace(title); title != "" {
			f.Titles = append(f.Titles, title)
		}
	}
	if opts.validOn != "" {
		d, err := brochure.ParseDate(opts.validOn)
		if err != nil {
			return nil, fmt.Errorf("invalid --valid-on %q: want %s", opts.validOn, brochure.DateLayout)
		}
		f.ValidOn = &d
	}
	return f, nil
}

func writeICS(path string, brochures []*brochure.Brochure) error {
	ics := calendar.GenerateICS(brochures, "Prospekte", time.Now())
	if ics == "" {
		logger.Warn("No brochures for calendar, file not written", logger.Fields{"path": path}, nil)
		return nil
	}
	if err := os.WriteFile(path, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	logger.Info("Saved calendar", logger.Fields{"path": path, "events": len(brochures)})
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the CLI and exits with the matching status code
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the root command with args and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// The root command replaces the default logger; leave it as found
	previous := logger.Default()
	defer logger.SetDefault(previous)

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitError
}
