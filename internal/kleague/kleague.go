// Package kleague harvests match metadata from the K League website. Match
// pages are static server-rendered HTML addressed by a sequential game id,
// so enumeration is a pure table lookup and fetching needs only plain HTTP.
package kleague

import (
	"errors"
	"fmt"

	"github.com/jonesrussell/matchcrawl/internal/domain"
)

// SiteName identifies this site in configuration and file names.
const SiteName = "kleague"

const (
	baseURL = "https://www.kleague.com"

	// startTabNum selects the statistics tab in the match page URL. The
	// site requires the parameter; its value is fixed.
	startTabNum = 3
)

// ErrUnsupportedLeague means a requested league name has no site code.
var ErrUnsupportedLeague = errors.New("unsupported league")

// LeagueCodes maps supported league names to the site's meetSeq URL
// parameter.
var LeagueCodes = map[string]int{
	"K리그1": 1,
	"K리그2": 2,
	"승강PO": 3,
	"슈퍼컵":  4,
}

// seasonGames holds the known fixture count per (league, season). Game ids
// run 1..N, so the count fully determines the enumeration.
var seasonGames = map[string]map[int]int{
	"K리그1": {2023: 228, 2024: 228, 2025: 228},
	"K리그2": {2023: 236, 2024: 236, 2025: 275},
	"승강PO": {2023: 4, 2024: 4, 2025: 4},
}

// defaultSeasonGames is the fallback fixture count for combinations absent
// from the table.
const defaultSeasonGames = 228

// GamesInSeason returns the fixture count for a league season, falling back
// to the default when the combination is unknown.
func GamesInSeason(league string, season int) int {
	if seasons, ok := seasonGames[league]; ok {
		if count, countOK := seasons[season]; countOK {
			return count
		}
	}

	return defaultSeasonGames
}

// ValidateLeague reports whether a league name is harvestable from this
// site.
func ValidateLeague(league string) error {
	if _, ok := LeagueCodes[league]; !ok {
		return fmt.Errorf("%q: %w", league, ErrUnsupportedLeague)
	}

	return nil
}

// MatchURL builds the match page URL for one fixture.
func MatchURL(season, leagueCode, gameID int) string {
	return fmt.Sprintf(
		"%s/match.do?year=%d&meetSeq=%d&gameId=%d&leagueId=&startTabNum=%d",
		baseURL, season, leagueCode, gameID, startTabNum,
	)
}

// EnumerateSeason lists every fixture page of one league season in game-id
// order. An unsupported league fails before any task is produced.
func EnumerateSeason(season int, league string) ([]domain.Task, error) {
	code, ok := LeagueCodes[league]
	if !ok {
		return nil, fmt.Errorf("%q: %w", league, ErrUnsupportedLeague)
	}

	total := GamesInSeason(league, season)
	tasks := make([]domain.Task, 0, total)

	for gameID := 1; gameID <= total; gameID++ {
		tasks = append(tasks, domain.Task{
			Identity: domain.Identity{Season: season, League: league, GameID: gameID},
			URL:      MatchURL(season, code, gameID),
		})
	}

	return tasks, nil
}
