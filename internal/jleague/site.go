package jleague

import (
	"context"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/fetch"
	"github.com/jonesrussell/matchcrawl/internal/harvest"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// SiteConfig configures the J.League site.
type SiteConfig struct {
	UserAgent string

	// BaseURL overrides the site root for discovery, for tests.
	BaseURL string
}

// Site bundles everything a collection run needs for the J.League: headless
// browser fetching, listing-page discovery and the page assembler.
type Site struct {
	log        logger.Interface
	discoverer *Discoverer
	factory    fetch.Factory
	assembler  *Assembler
}

// NewSite creates the J.League site.
func NewSite(log logger.Interface, cfg SiteConfig) *Site {
	return &Site{
		log: log,
		discoverer: NewDiscoverer(log, DiscovererConfig{
			BaseURL:   cfg.BaseURL,
			UserAgent: cfg.UserAgent,
		}),
		factory:   fetch.NewBrowserFactory(BrowserConfig()),
		assembler: NewAssembler(log),
	}
}

// Name returns the site identifier.
func (s *Site) Name() string { return SiteName }

// Validate reports whether this site can harvest the league.
func (s *Site) Validate(league string) error { return ValidateLeague(league) }

// Enumerate discovers a season's match pages from the monthly listings.
func (s *Site) Enumerate(ctx context.Context, season int, league string) ([]domain.Task, error) {
	return s.discoverer.DiscoverSeason(ctx, season, league)
}

// Factory returns the browser session factory.
func (s *Site) Factory() fetch.Factory { return s.factory }

// Assembler returns the match page assembler.
func (s *Site) Assembler() harvest.Assembler { return s.assembler }

// Label derives the file-name label for a league set: a single league uses
// its category code, several leagues collapse to the site name.
func (s *Site) Label(leagues []string) string {
	if len(leagues) == 1 {
		if category, ok := LeagueCategories[leagues[0]]; ok {
			return category
		}
	}

	return SiteName
}
