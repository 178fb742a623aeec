// Package jleague harvests match metadata from the J.League website. Match
// pages are script-rendered, so fetching goes through a headless browser;
// the set of pages is discovered from monthly listing pages rather than
// computed from a fixture count.
package jleague

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocolly/colly/v2"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/fetch"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// SiteName identifies this site in configuration and file names.
const SiteName = "jleague"

const (
	defaultBaseURL = "https://www.jleague.jp"

	// searchPathFormat is the monthly listing page, parameterized by league
	// category, season and month.
	searchPathFormat = "%s/match/search/?category[]=%s&year=%d&month=%d"

	// matchLinkSelector picks individual match links out of a listing page.
	matchLinkSelector = "section.matchlistWrap td.match a[href*='/live/']"

	seasonMonths = 12
)

// ErrUnsupportedLeague means a requested league name has no site category.
var ErrUnsupportedLeague = errors.New("unsupported league")

// LeagueCategories maps supported league names to the site's category URL
// parameter.
var LeagueCategories = map[string]string{
	"J리그1":   "j1",
	"J리그2":   "j2",
	"J리그3":   "j3",
	"J리그1PO": "playoff",
	"J리그2PO": "2playoff",
}

// ValidateLeague reports whether a league name is harvestable from this
// site.
func ValidateLeague(league string) error {
	if _, ok := LeagueCategories[league]; !ok {
		return fmt.Errorf("%q: %w", league, ErrUnsupportedLeague)
	}

	return nil
}

// DiscovererConfig configures season discovery.
type DiscovererConfig struct {
	// BaseURL overrides the site root, for tests.
	BaseURL   string
	UserAgent string
}

// withDefaults fills zero values.
func (c DiscovererConfig) withDefaults() DiscovererConfig {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	return c
}

// Discoverer enumerates a season's match pages by crawling the twelve
// monthly listing pages.
type Discoverer struct {
	log logger.Interface
	cfg DiscovererConfig
}

// NewDiscoverer creates a season discoverer.
func NewDiscoverer(log logger.Interface, cfg DiscovererConfig) *Discoverer {
	return &Discoverer{log: log, cfg: cfg.withDefaults()}
}

// DiscoverSeason collects every match link of one league season in listing
// order and numbers tasks sequentially from 1. Months without fixtures or
// with unreachable listings contribute zero tasks; only an unsupported
// league is an error.
func (d *Discoverer) DiscoverSeason(ctx context.Context, season int, league string) ([]domain.Task, error) {
	category, ok := LeagueCategories[league]
	if !ok {
		return nil, fmt.Errorf("%q: %w", league, ErrUnsupportedLeague)
	}

	var urls []string

	collector := colly.NewCollector(colly.IgnoreRobotsTxt())
	if d.cfg.UserAgent != "" {
		collector.UserAgent = d.cfg.UserAgent
	}

	collector.OnHTML(matchLinkSelector, func(e *colly.HTMLElement) {
		if href := e.Attr("href"); href != "" {
			urls = append(urls, e.Request.AbsoluteURL(href))
		}
	})

	collector.OnError(func(resp *colly.Response, err error) {
		d.log.Debug("month listing unavailable",
			"league", league,
			"season", season,
			"url", resp.Request.URL.String(),
			"error", err.Error(),
		)
	})

	for month := 1; month <= seasonMonths; month++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		listing := fmt.Sprintf(searchPathFormat, d.cfg.BaseURL, category, season, month)
		if visitErr := collector.Visit(listing); visitErr != nil {
			d.log.Debug("month listing skipped",
				"league", league,
				"season", season,
				"month", month,
				"error", visitErr.Error(),
			)
		}
	}

	tasks := make([]domain.Task, 0, len(urls))
	for i, url := range urls {
		tasks = append(tasks, domain.Task{
			Identity: domain.Identity{Season: season, League: league, GameID: i + 1},
			URL:      url,
		})
	}

	d.log.Info("season discovered",
		"league", league,
		"season", season,
		"matches", len(tasks),
	)

	return tasks, nil
}

// BrowserConfig is the fetch configuration for match pages: wait for the
// live table, then click the tracking-data tab and wait for its figures.
func BrowserConfig() fetch.BrowserConfig {
	return fetch.BrowserConfig{
		WaitSelector:         ".liveTopTable",
		ActivateSelector:     "a[href*='#trackingdata']",
		ActivateWaitSelector: ".total_km",
	}
}
