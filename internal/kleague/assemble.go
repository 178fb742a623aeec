package kleague

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/extract"
	"github.com/jonesrussell/matchcrawl/internal/logger"
	"github.com/jonesrussell/matchcrawl/internal/normalize"
)

// Page selectors. The match page is a server-rendered form: the selected
// option of each dropdown carries the current fixture's metadata.
const (
	leagueNameSelector = "#meetSeq option[selected]"

	roundSelector    = "#roundId option[selected]"
	datetimeSelector = "div.versus p"
	teamsSelector    = "#gameId option[selected]"
	compareSelector  = "#tab03 ul.compare > li"
	rankSelector     = "span.font-red"
	subInfoSelector  = "ul.game-sub-info.sort-box li"
)

// subInfoRules classifies the "label : value" items of the match sub-info
// list. First matching keyword wins.
var subInfoRules = []extract.ColonRule{
	{Contains: "관중수", Key: "attendance", Strip: []string{","}},
	{Contains: "경기장", Key: "stadium"},
	{Contains: "날씨", Key: "weather"},
	{Contains: "온도", Key: "temperature", Strip: []string{"°C", "℃"}},
	{Contains: "습도", Key: "humidity", Strip: []string{"%"}},
}

// Assembler builds one normalized record per K League match page. A nil
// stats client disables secondary-source augmentation.
type Assembler struct {
	log   logger.Interface
	stats *StatsClient
}

// NewAssembler creates a K League assembler.
func NewAssembler(log logger.Interface, stats *StatsClient) *Assembler {
	return &Assembler{log: log, stats: stats}
}

// Assemble extracts every field block independently. A block that cannot be
// read leaves its defaults in place; one broken block never suppresses the
// others.
func (a *Assembler) Assemble(ctx context.Context, doc *goquery.Document, id domain.Identity) domain.Match {
	match := domain.NewMatch(id)

	a.assembleLeagueName(doc, &match)
	a.assembleRound(doc, &match)
	a.assembleDatetime(doc, &match)
	a.assembleTeams(doc, &match)
	a.assembleStandings(doc, &match)
	a.assembleSubInfo(doc, &match)
	a.assembleStats(ctx, id, &match)

	return match
}

// assembleLeagueName reads the selected competition option, the full
// sponsored title, e.g. "하나원큐 K리그1 2025".
func (a *Assembler) assembleLeagueName(doc *goquery.Document, match *domain.Match) {
	sel := doc.Find(leagueNameSelector)
	if sel.Length() == 0 {
		a.fieldMissing(match, "league name")
		return
	}

	name := strings.TrimSpace(sel.Text())
	if name == "" {
		a.fieldMissing(match, "league name")
		return
	}

	match.LeagueName = &name
}

// assembleRound reads the selected round option, e.g. "1R".
func (a *Assembler) assembleRound(doc *goquery.Document, match *domain.Match) {
	sel := doc.Find(roundSelector)
	if sel.Length() == 0 {
		a.fieldMissing(match, "round")
		return
	}

	round := strings.TrimSpace(sel.Text())
	match.Round = &round
}

// assembleDatetime parses the kickoff line, e.g. "2025/03/01 (토) 14:00".
func (a *Assembler) assembleDatetime(doc *goquery.Document, match *domain.Match) {
	sel := doc.Find(datetimeSelector)
	if sel.Length() == 0 {
		a.fieldMissing(match, "datetime")
		return
	}

	parsed := normalize.Datetime(sel.Text(), nil)
	if parsed == nil {
		a.fieldMissing(match, "datetime")
		return
	}

	match.Datetime = &parsed.Datetime
	if parsed.Day != "" {
		match.Day = &parsed.Day
	}
}

// assembleTeams splits the selected fixture option, e.g. "울산vs포항 (14:00)".
func (a *Assembler) assembleTeams(doc *goquery.Document, match *domain.Match) {
	sel := doc.Find(teamsSelector)
	if sel.Length() == 0 {
		a.fieldMissing(match, "teams")
		return
	}

	pair := strings.Fields(sel.Text())
	if len(pair) == 0 {
		a.fieldMissing(match, "teams")
		return
	}

	home, away, found := strings.Cut(pair[0], "vs")
	if !found {
		a.fieldMissing(match, "teams")
		return
	}

	home = strings.TrimSpace(home)
	away = strings.TrimSpace(away)
	match.HomeTeam = &home
	match.AwayTeam = &away
}

// assembleStandings reads ranks and season records from the head-to-head
// comparison block. Rank spans appear home-first; points come from each
// team's win/draw/loss record text.
func (a *Assembler) assembleStandings(doc *goquery.Document, match *domain.Match) {
	item := doc.Find(compareSelector).First()
	if item.Length() == 0 {
		return
	}

	ranks := item.Find(rankSelector)
	if ranks.Length() >= 2 {
		match.HomeRank = normalize.Rank(ranks.Eq(0).Text())
		match.AwayRank = normalize.Rank(ranks.Eq(1).Text())
	}

	blocks := item.Children()
	if blocks.Length() >= 2 {
		match.HomePoints = normalize.Points(blocks.First().Text())
		match.AwayPoints = normalize.Points(blocks.Last().Text())
	}
}

// assembleSubInfo reads venue and environment fields from the sub-info list.
func (a *Assembler) assembleSubInfo(doc *goquery.Document, match *domain.Match) {
	raw := extract.ColonList(doc.Find(subInfoSelector), subInfoRules, func(text string) {
		a.log.Debug("unrecognized sub-info item",
			"season", match.Season,
			"game_id", match.GameID,
			"text", text,
		)
	})

	if stadium, ok := raw["stadium"]; ok && stadium != "" {
		match.Stadium = &stadium
	}
	if weather, ok := raw["weather"]; ok && weather != "" {
		match.Weather = &weather
	}
	if attendance, ok := raw["attendance"]; ok {
		match.Attendance = normalize.Attendance(attendance)
	}
	if temperature, ok := raw["temperature"]; ok {
		match.Temperature = normalize.Float(temperature)
	}
	if humidity, ok := raw["humidity"]; ok {
		match.Humidity = normalize.Int(humidity)
	}
}

// assembleStats augments the record from the statistics API. Augmentation is
// best effort; a failed lookup leaves Stats nil.
func (a *Assembler) assembleStats(ctx context.Context, id domain.Identity, match *domain.Match) {
	if a.stats == nil {
		return
	}

	stats, err := a.stats.MatchStats(ctx, id)
	if err != nil {
		a.log.Debug("match statistics unavailable",
			"season", id.Season,
			"game_id", id.GameID,
			"error", err.Error(),
		)
		return
	}

	match.Stats = stats
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
