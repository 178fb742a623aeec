package normalize

import "strings"

// Vocab is a fixed token translation table. Tokens absent from the table
// pass through unchanged, so unseen vocabulary degrades to the original
// text instead of an error.
type Vocab map[string]string

// Translate looks up a token in the table, returning the token itself when
// it is unknown.
func (v Vocab) Translate(token string) string {
	token = strings.TrimSpace(token)

	if translated, ok := v[token]; ok {
		return translated
	}

	return token
}

// WeatherInfo is the parsed form of a composite "weather / temperature /
// humidity" value.
type WeatherInfo struct {
	Weather     string
	Temperature string
	Humidity    string
}

// weatherInfoParts is the expected number of slash-delimited parts in a
// composite weather value.
const weatherInfoParts = 3

// SplitWeatherInfo parses a composite value such as "晴 / 25℃ / 60%".
// The weather token is translated through the vocabulary; temperature and
// humidity keep their digits only. Fewer than three parts means the whole
// composite is unusable and nil is returned; no partial fields.
func SplitWeatherInfo(raw string, weather Vocab) *WeatherInfo {
	parts := strings.Split(raw, "/")
	if len(parts) < weatherInfoParts {
		return nil
	}

	return &WeatherInfo{
		Weather:     weather.Translate(parts[0]),
		Temperature: stripUnits(parts[1]),
		Humidity:    stripUnits(parts[2]),
	}
}
