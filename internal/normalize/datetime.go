package normalize

import (
	"fmt"
	"regexp"
	"strconv"
)

// datetimePattern tolerates the date conventions seen across both sites:
// "2025年3月15日(土) 14:00", "2025/03/01 (토) 14:00", "2025.3.15(토)2:30".
// Groups: year, month, day, optional parenthesized weekday token, hour,
// minute.
var datetimePattern = regexp.MustCompile(
	`(\d{4})[年/.\-](\d{1,2})[月/.\-](\d{1,2})日?\s*(?:\(([^)]+)\))?\s*(\d{1,2}):(\d{2})`,
)

// MatchDatetime is a parsed match kickoff time.
type MatchDatetime struct {
	// Datetime is the canonical "YYYY-MM-DD HH:MM:SS" form.
	Datetime string
	// Day is the weekday token translated through the vocabulary; empty
	// when the source text carried no weekday.
	Day string
}

// Datetime parses loosely formatted date text into the canonical timestamp
// string, zero-padding every numeric sub-field. The weekday token is
// translated through the table. Pattern mismatch yields nil, never a
// partial timestamp.
func Datetime(raw string, days Vocab) *MatchDatetime {
	m := datetimePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	year := m[1]
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	weekday := m[4]
	hour, _ := strconv.Atoi(m[5])
	minute, _ := strconv.Atoi(m[6])

	result := &MatchDatetime{
		Datetime: fmt.Sprintf("%s-%02d-%02d %02d:%02d:00", year, month, day, hour, minute),
	}
	if weekday != "" {
		result.Day = days.Translate(weekday)
	}

	return result
}
