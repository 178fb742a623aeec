// Package domain defines the core types shared across the harvest pipeline.
package domain

// Identity uniquely identifies one harvest task and seeds every record,
// independent of extraction success.
type Identity struct {
	Season int
	League string
	GameID int
}

// Match is one fully normalized match record. Numeric fields are either a
// parsed value or nil; ranks and points default to zero because "no record
// yet" is a valid competitive state. Optional text fields are nil when
// extraction fails, never an empty string.
type Match struct {
	Season int    `db:"season"`
	League string `db:"league"`
	GameID int    `db:"game_id"`

	// LeagueName is the full sponsored league title as printed on the page,
	// distinct from the requested league name.
	LeagueName *string `db:"league_name"`

	Round    *string `db:"round"`
	Datetime *string `db:"game_datetime"`
	Day      *string `db:"day"`

	HomeTeam *string `db:"home_team"`
	AwayTeam *string `db:"away_team"`

	HomeRank   int `db:"home_rank"`
	AwayRank   int `db:"away_rank"`
	HomePoints int `db:"home_points"`
	AwayPoints int `db:"away_points"`

	Stadium     *string  `db:"stadium"`
	Attendance  *int     `db:"attendance"`
	Weather     *string  `db:"weather"`
	Temperature *float64 `db:"temperature"`
	Humidity    *int     `db:"humidity"`

	HomeDistance *float64 `db:"home_distance"`
	AwayDistance *float64 `db:"away_distance"`
	HomeSprints  *int     `db:"home_sprints"`
	AwaySprints  *int     `db:"away_sprints"`

	// Stats holds secondary-source augmentation fields (statistics API),
	// keyed by snake_case field name. Nil when no secondary source ran.
	Stats map[string]any `db:"-"`
}

// NewMatch returns a Match with the identity fields set and every other
// field at its declared default, guaranteeing a stable schema regardless of
// what a page contains.
func NewMatch(id Identity) Match {
	return Match{
		Season: id.Season,
		League: id.League,
		GameID: id.GameID,
	}
}

// Dataset is the accumulated list of successful records for one run.
type Dataset []Match
