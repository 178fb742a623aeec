// Package collect implements the collect command: harvest one or more
// league seasons from a site and persist the dataset.
package collect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/matchcrawl/internal/collect"
	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/harvest"
	"github.com/jonesrussell/matchcrawl/internal/jleague"
	"github.com/jonesrussell/matchcrawl/internal/kleague"
	"github.com/jonesrussell/matchcrawl/internal/logger"
	"github.com/jonesrussell/matchcrawl/internal/output"
)

// defaultLeagues is the league harvested when none is requested.
var defaultLeagues = map[string]string{
	kleague.SiteName: "K리그1",
	jleague.SiteName: "J리그1",
}

const yearRangeParts = 2

// options holds the collect command's flag values.
type options struct {
	site       string
	years      string
	leagues    []string
	parallel   bool
	workers    int
	format     string
	noProgress bool
	stats      bool
}

// Command returns the collect command for use in the root command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Harvest match metadata for one or more seasons",
		Long: `Harvest match metadata from a site across the requested leagues and
years, then write the dataset as CSV and/or SQLite.

Examples:
  matchcrawl collect --site kleague --years 2025
  matchcrawl collect --site kleague --years 2023-2025 --leagues K리그1,K리그2
  matchcrawl collect --site jleague --years 2024 --parallel --workers 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, *cfgFile, *debug, opts)
		},
	}

	cmd.Flags().StringVar(&opts.site, "site", kleague.SiteName, "site to harvest (kleague or jleague)")
	cmd.Flags().StringVar(&opts.years, "years", "", "season year or range, e.g. 2025 or 2023-2025")
	cmd.Flags().StringSliceVar(&opts.leagues, "leagues", nil, "league names (default depends on site)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "use the parallel worker pool")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker pool size in parallel mode")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format (csv, sqlite or both)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "augment K League records from the statistics API")

	if err := cmd.MarkFlagRequired("years"); err != nil {
		panic(err)
	}

	return cmd
}

// run executes one collection: load config, build the site, harvest, save.
func run(cmd *cobra.Command, cfgFile string, debug bool, opts *options) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	applyFlags(cmd, cfg, opts)

	if debug {
		cfg.Logger.Level = "debug"
		cfg.Logger.Development = true
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	years, err := parseYears(opts.years)
	if err != nil {
		return err
	}

	site, err := newSite(log, cfg, opts)
	if err != nil {
		return err
	}

	leagues := opts.leagues
	if len(leagues) == 0 {
		leagues = []string{defaultLeagues[opts.site]}
	}

	runOpts := collect.Options{
		Harvest: harvest.Config{
			Workers:    cfg.Harvest.Workers,
			FetchDelay: cfg.Harvest.FetchDelay,
		},
	}
	if cfg.Harvest.Parallel {
		runOpts.Harvest.Mode = harvest.Parallel
	}
	if !opts.noProgress {
		runOpts.Progress = output.NewConsoleProgress()
	}

	summary, err := collect.Run(cmd.Context(), log, site, years, leagues, runOpts)
	if err != nil {
		return err
	}

	log.Info("collection finished",
		"records", len(summary.Dataset),
		"tasks", summary.Total,
		"retried", summary.Retried,
		"failed", summary.Failed,
	)

	return save(log, cfg, summary)
}

// applyFlags overrides loaded configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) {
	if cmd.Flags().Changed("parallel") {
		cfg.Harvest.Parallel = opts.parallel
	}
	if cmd.Flags().Changed("workers") {
		cfg.Harvest.Workers = opts.workers
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = opts.format
	}
	if cmd.Flags().Changed("stats") {
		cfg.KLeague.EnableStats = opts.stats
	}
}

// newSite builds the requested site.
func newSite(log logger.Interface, cfg *config.Config, opts *options) (collect.Site, error) {
	switch opts.site {
	case kleague.SiteName:
		return kleague.NewSite(log, kleague.SiteConfig{
			UserAgent:   cfg.Harvest.UserAgent,
			Timeout:     cfg.Harvest.Timeout,
			EnableStats: cfg.KLeague.EnableStats,
		}), nil

	case jleague.SiteName:
		return jleague.NewSite(log, jleague.SiteConfig{
			UserAgent: cfg.Harvest.UserAgent,
		}), nil

	default:
		return nil, fmt.Errorf("unknown site %q (expected %s or %s)",
			opts.site, kleague.SiteName, jleague.SiteName)
	}
}

// save writes the dataset through every sink the format selects.
func save(log logger.Interface, cfg *config.Config, summary *collect.Summary) error {
	var sinks []output.Sink

	switch cfg.Output.Format {
	case config.FormatCSV:
		sinks = append(sinks, output.NewCSVSink(log, cfg.Output.Dir))
	case config.FormatSQLite:
		sinks = append(sinks, output.NewSQLiteSink(log, cfg.Output.Dir))
	case config.FormatBoth:
		sinks = append(sinks,
			output.NewCSVSink(log, cfg.Output.Dir),
			output.NewSQLiteSink(log, cfg.Output.Dir),
		)
	}

	for _, sink := range sinks {
		if _, err := sink.Save(summary.Dataset, summary.FileName); err != nil {
			return fmt.Errorf("save dataset: %w", err)
		}
	}

	return nil
}

// parseYears parses a year argument: "2025", "2023-2025" or "2023,2025".
// Ranges are inclusive; the collect entry point expands the span.
func parseYears(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("years must not be empty")
	}

	var parts []string
	switch {
	case strings.Contains(raw, "-"):
		parts = strings.SplitN(raw, "-", yearRangeParts)
	case strings.Contains(raw, ","):
		parts = strings.Split(raw, ",")
	default:
		parts = []string{raw}
	}

	years := make([]int, 0, len(parts))
	for _, part := range parts {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}

	return years, nil
}
