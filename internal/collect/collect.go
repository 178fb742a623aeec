// Package collect is the season-level entry point: it composes a site's
// enumerator with the harvest loop across the cartesian product of leagues
// and years, and derives the suggested output file name.
package collect

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/fetch"
	"github.com/jonesrussell/matchcrawl/internal/harvest"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// Site is one harvestable source: it validates league names, enumerates a
// season's pages, and supplies the fetch factory and assembler the harvest
// loop runs with.
type Site interface {
	Name() string
	Validate(league string) error
	Enumerate(ctx context.Context, season int, league string) ([]domain.Task, error)
	Factory() fetch.Factory
	Assembler() harvest.Assembler

	// Label returns the file-name label for a league set.
	Label(leagues []string) string
}

// Options control one collection run.
type Options struct {
	Harvest  harvest.Config
	Progress harvest.Reporter
}

// Summary is the outcome of one collection run: the accumulated dataset
// plus per-run counters. A run that reaches the harvest stage always
// returns a summary, however partial.
type Summary struct {
	Dataset  domain.Dataset
	FileName string
	Total    int
	Retried  int
	Failed   int
}

// Errors for empty requests, reported before any work happens.
var (
	ErrNoSeasons = errors.New("no seasons requested")
	ErrNoLeagues = errors.New("no leagues requested")
)

// Run harvests every (league, season) combination from the site. All league
// names are validated up front, so an invalid request fails before the
// first fetch instead of after a partial run. Per-task failures never
// propagate; they only raise the summary's failure count.
func Run(
	ctx context.Context,
	log logger.Interface,
	site Site,
	years []int,
	leagues []string,
	opts Options,
) (*Summary, error) {
	if len(years) == 0 {
		return nil, ErrNoSeasons
	}
	if len(leagues) == 0 {
		return nil, ErrNoLeagues
	}

	for _, league := range leagues {
		if err := site.Validate(league); err != nil {
			return nil, err
		}
	}

	seasons := ExpandYears(years)
	runner := harvest.NewRunner(site.Factory(), site.Assembler(), log, opts.Progress, opts.Harvest)

	summary := &Summary{
		FileName: FileName(site, leagues, seasons),
	}

	for _, league := range leagues {
		for _, season := range seasons {
			tasks, err := site.Enumerate(ctx, season, league)
			if err != nil {
				return nil, fmt.Errorf("enumerate %s %d: %w", league, season, err)
			}

			log.Info("season enumerated",
				"site", site.Name(),
				"league", league,
				"season", season,
				"tasks", len(tasks),
			)

			result, err := runner.Run(ctx, tasks)
			if err != nil {
				return nil, fmt.Errorf("harvest %s %d: %w", league, season, err)
			}

			summary.Dataset = append(summary.Dataset, result.Records...)
			summary.Total += result.Total
			summary.Retried += result.Retried
			summary.Failed += len(result.Failures)
		}
	}

	return summary, nil
}

// ExpandYears turns a year list into the full inclusive range between its
// minimum and maximum. A single year stays a single season.
func ExpandYears(years []int) []int {
	lo, hi := years[0], years[0]
	for _, year := range years[1:] {
		if year < lo {
			lo = year
		}
		if year > hi {
			hi = year
		}
	}

	seasons := make([]int, 0, hi-lo+1)
	for year := lo; year <= hi; year++ {
		seasons = append(seasons, year)
	}

	return seasons
}

// FileName derives the suggested output name, e.g. "kleague1_match_2025" or
// "jleague_match_2023-2025".
func FileName(site Site, leagues []string, seasons []int) string {
	yearLabel := strconv.Itoa(seasons[0])
	if len(seasons) > 1 {
		yearLabel = fmt.Sprintf("%d-%d", seasons[0], seasons[len(seasons)-1])
	}

	return fmt.Sprintf("%s_match_%s", site.Label(leagues), yearLabel)
}
