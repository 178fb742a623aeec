// Package output persists harvested datasets and renders run progress.
package output

import (
	"sort"
	"strconv"

	"github.com/jonesrussell/matchcrawl/internal/domain"
)

// Sink persists a dataset under a suggested base name (no extension) and
// returns the final destination path.
type Sink interface {
	Save(dataset domain.Dataset, name string) (string, error)
}

// baseColumns is the fixed column order shared by every sink. Statistics
// columns follow, sorted by name, because their set depends on the site.
var baseColumns = []string{
	"season", "league", "game_id", "league_name",
	"round", "game_datetime", "day",
	"home_team", "away_team",
	"home_rank", "away_rank", "home_points", "away_points",
	"stadium", "attendance", "weather", "temperature", "humidity",
	"home_distance", "away_distance", "home_sprints", "away_sprints",
}

// statColumns returns the sorted union of statistics keys across the
// dataset.
func statColumns(dataset domain.Dataset) []string {
	seen := map[string]bool{}
	for _, match := range dataset {
		for key := range match.Stats {
			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)

	return columns
}

// String-form cell values for the CSV sink. Nil pointers render as the
// empty string so absent data stays distinguishable from zero.

func stringCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
