package jleague

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/extract"
	"github.com/jonesrussell/matchcrawl/internal/logger"
	"github.com/jonesrussell/matchcrawl/internal/normalize"
)

// Page selectors.
const (
	// stadiumMarker identifies the venue table; the page carries several
	// tables without ids, so the table is found by its content.
	stadiumMarker = "スタジアム"

	leagueSelector   = ".matchVsTitle__league"
	dateSelector     = ".matchVsTitle__date"
	teamSelector     = ".leagAccTeam__clubName"
	trackingSelector = ".total_km"
)

// stadiumFields maps the venue table's labels to canonical keys. Weather,
// temperature and humidity arrive as one composite cell.
var stadiumFields = domain.FieldMap{
	"スタジアム":        "stadium",
	"入場者数":         "attendance",
	"天候 / 気温 / 湿度": "weather_info",
}

// weatherVocab translates the site's weather terms.
var weatherVocab = normalize.Vocab{
	"晴": "맑음",
	"曇": "흐림",
	"雨": "비",
	"雪": "눈",
}

// dayVocab translates the site's single-character weekdays.
var dayVocab = normalize.Vocab{
	"月": "월",
	"火": "화",
	"水": "수",
	"木": "목",
	"金": "금",
	"土": "토",
	"日": "일",
}

// roundPattern extracts the round number from the league title line, e.g.
// "明治安田J1リーグ 第10節". Cup rounds without the pattern have no round.
var roundPattern = regexp.MustCompile(`第(\d+)節`)

// Tracking figures appear as four cells (two distances, two sprint counts)
// or two cells (distances only) depending on the match's era.
const (
	fullTrackingCells     = 4
	distanceTrackingCells = 2
)

// Assembler builds one normalized record per J.League match page.
type Assembler struct {
	log logger.Interface
}

// NewAssembler creates a J.League assembler.
func NewAssembler(log logger.Interface) *Assembler {
	return &Assembler{log: log}
}

// Assemble extracts every field block independently; one broken block never
// suppresses the others.
func (a *Assembler) Assemble(_ context.Context, doc *goquery.Document, id domain.Identity) domain.Match {
	match := domain.NewMatch(id)

	a.assembleVenue(doc, &match)
	a.assembleRound(doc, &match)
	a.assembleDatetime(doc, &match)
	a.assembleTeams(doc, &match)
	a.assembleTracking(doc, &match)

	return match
}

// assembleVenue reads the stadium table: venue name, attendance and the
// composite weather cell.
func (a *Assembler) assembleVenue(doc *goquery.Document, match *domain.Match) {
	table := extract.TableWithMarker(doc, stadiumMarker)
	if table == nil {
		a.fieldMissing(match, "venue table")
		return
	}

	raw := extract.PairedCells(table, stadiumFields)

	if stadium, ok := raw["stadium"]; ok && stadium != "" {
		match.Stadium = &stadium
	}
	if attendance, ok := raw["attendance"]; ok {
		match.Attendance = normalize.Attendance(attendance)
	}

	composite, ok := raw["weather_info"]
	if !ok {
		return
	}

	info := normalize.SplitWeatherInfo(composite, weatherVocab)
	if info == nil {
		a.fieldMissing(match, "weather info")
		return
	}

	if info.Weather != "" {
		weather := info.Weather
		match.Weather = &weather
	}
	match.Temperature = normalize.Float(info.Temperature)
	match.Humidity = normalize.Int(info.Humidity)
}

// assembleRound pulls the round number out of the league title line. Cup
// fixtures without a numbered round leave the field empty.
func (a *Assembler) assembleRound(doc *goquery.Document, match *domain.Match) {
	title := strings.TrimSpace(doc.Find(leagueSelector).Text())
	if title == "" {
		a.fieldMissing(match, "round")
		return
	}

	m := roundPattern.FindStringSubmatch(title)
	if m == nil {
		a.log.Debug("league title has no round number",
			"season", match.Season,
			"game_id", match.GameID,
			"title", title,
		)
		return
	}

	round := m[1]
	match.Round = &round
}

// assembleDatetime parses the kickoff line, e.g. "2025年3月15日(土) 14:00".
func (a *Assembler) assembleDatetime(doc *goquery.Document, match *domain.Match) {
	parsed := normalize.Datetime(doc.Find(dateSelector).Text(), dayVocab)
	if parsed == nil {
		a.fieldMissing(match, "datetime")
		return
	}

	match.Datetime = &parsed.Datetime
	if parsed.Day != "" {
		match.Day = &parsed.Day
	}
}

// assembleTeams reads the two club name blocks, home first.
func (a *Assembler) assembleTeams(doc *goquery.Document, match *domain.Match) {
	teams := doc.Find(teamSelector)
	if teams.Length() < 2 {
		a.fieldMissing(match, "teams")
		return
	}

	home := strings.TrimSpace(teams.Eq(0).Find("span").First().Text())
	away := strings.TrimSpace(teams.Eq(1).Find("span").First().Text())

	if home != "" {
		match.HomeTeam = &home
	}
	if away != "" {
		match.AwayTeam = &away
	}
}

// assembleTracking reads distance and sprint figures from the tracking tab.
// Older matches expose distances only, or nothing at all.
func (a *Assembler) assembleTracking(doc *goquery.Document, match *domain.Match) {
	cells := doc.Find(trackingSelector)

	switch {
	case cells.Length() >= fullTrackingCells:
		match.HomeDistance = normalize.Float(cells.Eq(0).Text())
		match.AwayDistance = normalize.Float(cells.Eq(1).Text())
		match.HomeSprints = normalize.Int(cells.Eq(2).Text())
		match.AwaySprints = normalize.Int(cells.Eq(3).Text())

	case cells.Length() >= distanceTrackingCells:
		match.HomeDistance = normalize.Float(cells.Eq(0).Text())
		match.AwayDistance = normalize.Float(cells.Eq(1).Text())
		a.log.Debug("sprint figures absent, distances only",
			"season", match.Season,
			"game_id", match.GameID,
		)

	default:
		a.fieldMissing(match, "tracking data")
	}
}

// fieldMissing logs one unextractable field block.
func (a *Assembler) fieldMissing(match *domain.Match, field string) {
	a.log.Debug("field block not found",
		"season", match.Season,
		"league", match.League,
		"game_id", match.GameID,
		"field", field,
	)
}
