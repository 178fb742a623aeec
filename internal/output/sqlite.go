package output

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// matchesSchema keys rows by fixture identity so re-running a harvest
// replaces its rows instead of duplicating them. Dynamic statistics fields
// are stored as one JSON document.
const matchesSchema = `
CREATE TABLE IF NOT EXISTS matches (
	season        INTEGER NOT NULL,
	league        TEXT    NOT NULL,
	game_id       INTEGER NOT NULL,
	league_name   TEXT,
	round         TEXT,
	game_datetime TEXT,
	day           TEXT,
	home_team     TEXT,
	away_team     TEXT,
	home_rank     INTEGER NOT NULL DEFAULT 0,
	away_rank     INTEGER NOT NULL DEFAULT 0,
	home_points   INTEGER NOT NULL DEFAULT 0,
	away_points   INTEGER NOT NULL DEFAULT 0,
	stadium       TEXT,
	attendance    INTEGER,
	weather       TEXT,
	temperature   REAL,
	humidity      INTEGER,
	home_distance REAL,
	away_distance REAL,
	home_sprints  INTEGER,
	away_sprints  INTEGER,
	stats         TEXT,
	PRIMARY KEY (season, league, game_id)
)`

const insertMatch = `
INSERT OR REPLACE INTO matches (
	season, league, game_id, league_name,
	round, game_datetime, day,
	home_team, away_team,
	home_rank, away_rank, home_points, away_points,
	stadium, attendance, weather, temperature, humidity,
	home_distance, away_distance, home_sprints, away_sprints,
	stats
) VALUES (
	:season, :league, :game_id, :league_name,
	:round, :game_datetime, :day,
	:home_team, :away_team,
	:home_rank, :away_rank, :home_points, :away_points,
	:stadium, :attendance, :weather, :temperature, :humidity,
	:home_distance, :away_distance, :home_sprints, :away_sprints,
	:stats
)`

// matchRow adapts a record for named insertion: the dynamic statistics map
// becomes a JSON column.
type matchRow struct {
	domain.Match
	StatsJSON sql.NullString `db:"stats"`
}

// SQLiteSink writes datasets into a SQLite database file.
type SQLiteSink struct {
	log logger.Interface
	dir string
}

// NewSQLiteSink creates a SQLite sink writing into the given directory.
func NewSQLiteSink(log logger.Interface, dir string) *SQLiteSink {
	return &SQLiteSink{log: log, dir: dir}
}

// Save writes the dataset into "<dir>/<name>.db", one transaction for the
// whole dataset, and returns the path.
func (s *SQLiteSink) Save(dataset domain.Dataset, name string) (string, error) {
	if len(dataset) == 0 {
		return "", ErrEmptyDataset
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(s.dir, name+".db")

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err = db.Exec(matchesSchema); err != nil {
		return "", fmt.Errorf("create matches table: %w", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	for i := range dataset {
		row, rowErr := newMatchRow(&dataset[i])
		if rowErr != nil {
			tx.Rollback()
			return "", rowErr
		}

		if _, execErr := tx.NamedExec(insertMatch, row); execErr != nil {
			tx.Rollback()
			return "", fmt.Errorf("insert match %d/%d/%s: %w",
				dataset[i].Season, dataset[i].GameID, dataset[i].League, execErr)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	s.log.Info("dataset saved",
		"path", path,
		"records", len(dataset),
	)

	return path, nil
}

// newMatchRow serializes the record's statistics map. Records without
// statistics store NULL.
func newMatchRow(match *domain.Match) (*matchRow, error) {
	row := &matchRow{Match: *match}

	if len(match.Stats) > 0 {
		encoded, err := json.Marshal(match.Stats)
		if err != nil {
			return nil, fmt.Errorf("encode match stats: %w", err)
		}
		row.StatsJSON = sql.NullString{String: string(encoded), Valid: true}
	}

	return row, nil
}
