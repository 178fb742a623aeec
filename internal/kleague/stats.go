package kleague

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// Statistics API endpoints. Both take the same form-encoded fixture
// identity and answer JSON.
const (
	matchRecordPath = "/api/ddf/match/matchRecord.do"
	possessionPath  = "/api/ddf/match/possession.do"
)

// DefaultStatsTimeout bounds one statistics API call.
const DefaultStatsTimeout = 15 * time.Second

// matchRecordFields are the per-team keys taken from the match record
// endpoint, in the API's camelCase form.
var matchRecordFields = []string{
	"possession", "attempts", "onTarget", "fouls",
	"yellowCards", "redCards", "doubleYellowCards",
	"corners", "freeKicks", "offsides",
}

// possessionFields are the per-team interval keys of the possession
// endpoint.
var possessionFields = []string{
	"first_15", "first_30", "first_45",
	"second_15", "second_30", "second_45",
}

// teamSides orders the per-team sections of both endpoints.
var teamSides = []string{"home", "away"}

// statsOKCode is the resultCode value of a successful API response.
const statsOKCode = "200"

// statsResponse is the envelope both endpoints share. Data maps team side
// to field values; the possession endpoint serializes numbers as strings.
type statsResponse struct {
	ResultCode string                    `json:"resultCode"`
	Data       map[string]map[string]any `json:"data"`
}

// StatsConfig configures the statistics client.
type StatsConfig struct {
	// BaseURL overrides the site root, for tests.
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// withDefaults fills zero values.
func (c StatsConfig) withDefaults() StatsConfig {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultStatsTimeout
	}
	return c
}

// StatsClient reads the match statistics API.
type StatsClient struct {
	client *resty.Client
	log    logger.Interface
}

// NewStatsClient creates a statistics client. The API rejects requests
// without the AJAX headers the site's own frontend sends.
func NewStatsClient(log logger.Interface, cfg StatsConfig) *StatsClient {
	cfg = cfg.withDefaults()

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Referer", cfg.BaseURL+"/match.do").
		SetHeader("Origin", cfg.BaseURL).
		SetHeader("X-Requested-With", "XMLHttpRequest")

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &StatsClient{client: client, log: log}
}

// MatchStats collects per-team statistics for one fixture: the base match
// record plus interval possession. The match record is mandatory; missing
// possession data degrades to base statistics only.
func (c *StatsClient) MatchStats(ctx context.Context, id domain.Identity) (map[string]any, error) {
	record, err := c.post(ctx, matchRecordPath, id)
	if err != nil {
		return nil, fmt.Errorf("match record: %w", err)
	}

	stats := make(map[string]any)

	for _, side := range teamSides {
		team := record[side]
		for _, field := range matchRecordFields {
			value, ok := team[field]
			if !ok {
				value = 0
			}
			stats[side+"_"+snakeCase(field)] = value
		}
	}

	possession, err := c.post(ctx, possessionPath, id)
	if err != nil {
		c.log.Debug("possession data unavailable",
			"season", id.Season,
			"game_id", id.GameID,
			"error", err.Error(),
		)

		return stats, nil
	}

	for _, side := range teamSides {
		team := possession[side]
		for _, field := range possessionFields {
			stats[fmt.Sprintf("%s_%s_possession", side, field)] = toFloat(team[field])
		}
	}

	return stats, nil
}

// post sends one fixture-identity request and unwraps the response
// envelope.
func (c *StatsClient) post(ctx context.Context, path string, id domain.Identity) (map[string]map[string]any, error) {
	var envelope statsResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"year":    strconv.Itoa(id.Season),
			"meetSeq": strconv.Itoa(LeagueCodes[id.League]),
			"gameId":  strconv.Itoa(id.GameID),
		}).
		SetResult(&envelope).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("post %s: status %s", path, resp.Status())
	}

	if envelope.ResultCode != statsOKCode || envelope.Data == nil {
		return nil, fmt.Errorf("post %s: result code %q", path, envelope.ResultCode)
	}

	return envelope.Data, nil
}

// camelBoundary marks lower-to-upper transitions for snake_case conversion.
var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// snakeCase converts an API camelCase field name to the snake_case column
// name used in records.
func snakeCase(name string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(name, `${1}_${2}`))
}

// toFloat coerces an API value that may arrive as a JSON number or a
// numeric string. Unparseable values become 0.
func toFloat(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
