package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// utf8BOM is prepended so spreadsheet tools detect the encoding; the data
// carries Korean and Japanese text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyDataset means there is nothing to persist.
var ErrEmptyDataset = errors.New("dataset is empty")

// CSVSink writes datasets as UTF-8 CSV files with a byte order mark.
type CSVSink struct {
	log logger.Interface
	dir string
}

// NewCSVSink creates a CSV sink writing into the given directory.
func NewCSVSink(log logger.Interface, dir string) *CSVSink {
	return &CSVSink{log: log, dir: dir}
}

// Save writes the dataset to "<dir>/<name>.csv" and returns the path.
func (s *CSVSink) Save(dataset domain.Dataset, name string) (string, error) {
	if len(dataset) == 0 {
		return "", ErrEmptyDataset
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(s.dir, name+".csv")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv file: %w", err)
	}
	defer file.Close()

	if _, err = file.Write(utf8BOM); err != nil {
		return "", fmt.Errorf("write byte order mark: %w", err)
	}

	stats := statColumns(dataset)

	writer := csv.NewWriter(file)
	if err = writer.Write(append(append([]string{}, baseColumns...), stats...)); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for i := range dataset {
		if err = writer.Write(csvRow(&dataset[i], stats)); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err = writer.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	s.log.Info("dataset saved",
		"path", path,
		"records", len(dataset),
	)

	return path, nil
}

// csvRow renders one record in column order.
func csvRow(match *domain.Match, stats []string) []string {
	row := []string{
		strconv.Itoa(match.Season),
		match.League,
		strconv.Itoa(match.GameID),
		stringCell(match.LeagueName),
		stringCell(match.Round),
		stringCell(match.Datetime),
		stringCell(match.Day),
		stringCell(match.HomeTeam),
		stringCell(match.AwayTeam),
		strconv.Itoa(match.HomeRank),
		strconv.Itoa(match.AwayRank),
		strconv.Itoa(match.HomePoints),
		strconv.Itoa(match.AwayPoints),
		stringCell(match.Stadium),
		intCell(match.Attendance),
		stringCell(match.Weather),
		floatCell(match.Temperature),
		intCell(match.Humidity),
		floatCell(match.HomeDistance),
		floatCell(match.AwayDistance),
		intCell(match.HomeSprints),
		intCell(match.AwaySprints),
	}

	for _, key := range stats {
		value, ok := match.Stats[key]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, fmt.Sprintf("%v", value))
	}

	return row
}
