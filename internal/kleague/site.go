package kleague

import (
	"context"
	"strings"
	"time"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/fetch"
	"github.com/jonesrussell/matchcrawl/internal/harvest"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// SiteConfig configures the K League site.
type SiteConfig struct {
	UserAgent string
	Timeout   time.Duration

	// EnableStats turns on statistics API augmentation.
	EnableStats  bool
	StatsTimeout time.Duration
}

// Site bundles everything a collection run needs for the K League: plain
// HTTP fetching, table-based enumeration and the page assembler.
type Site struct {
	log       logger.Interface
	factory   fetch.Factory
	assembler *Assembler
}

// NewSite creates the K League site.
func NewSite(log logger.Interface, cfg SiteConfig) *Site {
	var stats *StatsClient
	if cfg.EnableStats {
		stats = NewStatsClient(log, StatsConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.StatsTimeout,
		})
	}

	return &Site{
		log: log,
		factory: fetch.NewHTTPFactory(fetch.HTTPConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		}),
		assembler: NewAssembler(log, stats),
	}
}

// Name returns the site identifier.
func (s *Site) Name() string { return SiteName }

// Validate reports whether this site can harvest the league.
func (s *Site) Validate(league string) error { return ValidateLeague(league) }

// Enumerate lists a season's fixture pages. No network work is needed; the
// context is unused.
func (s *Site) Enumerate(_ context.Context, season int, league string) ([]domain.Task, error) {
	return EnumerateSeason(season, league)
}

// Factory returns the HTTP session factory.
func (s *Site) Factory() fetch.Factory { return s.factory }

// Assembler returns the match page assembler.
func (s *Site) Assembler() harvest.Assembler { return s.assembler }

// Label derives the file-name label for a league set: a single league keeps
// its own short form, several leagues collapse to the site name.
func (s *Site) Label(leagues []string) string {
	if len(leagues) == 1 {
		return strings.ReplaceAll(leagues[0], "K리그", SiteName)
	}

	return SiteName
}
