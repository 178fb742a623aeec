// Package config handles loading, validation and access to application
// configuration from a YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// Output formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
	FormatBoth   = "both"
)

// Harvest defaults and bounds.
const (
	defaultWorkers    = 4
	maxWorkers        = 16
	defaultFetchDelay = 500 * time.Millisecond
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

const defaultOutputDir = "data"

// HarvestConfig controls the harvest loop.
type HarvestConfig struct {
	// Parallel enables the worker pool; sequential otherwise.
	Parallel bool `mapstructure:"parallel"`
	// Workers is the pool size in parallel mode. Each worker owns a full
	// fetch session, so the bound stays small.
	Workers    int           `mapstructure:"workers"`
	FetchDelay time.Duration `mapstructure:"fetch_delay"`
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`
}

// Validate validates the harvest configuration.
func (c *HarvestConfig) Validate() error {
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers must be at most %d", maxWorkers)
	}
	if c.FetchDelay < 0 {
		return errors.New("fetch_delay must not be negative")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// OutputConfig controls dataset persistence.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	if c.Dir == "" {
		return errors.New("dir must not be empty")
	}

	switch c.Format {
	case FormatCSV, FormatSQLite, FormatBoth:
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected %s, %s or %s)",
			c.Format, FormatCSV, FormatSQLite, FormatBoth)
	}
}

// KLeagueConfig holds K League specific settings.
type KLeagueConfig struct {
	// EnableStats turns on statistics API augmentation per match.
	EnableStats bool `mapstructure:"enable_stats"`
}

// Config is the application configuration.
type Config struct {
	Logger  logger.Config `mapstructure:"logger"`
	Harvest HarvestConfig `mapstructure:"harvest"`
	Output  OutputConfig  `mapstructure:"output"`
	KLeague KLeagueConfig `mapstructure:"kleague"`
}

// Validate validates the whole configuration.
func (c *Config) Validate() error {
	if err := c.Harvest.Validate(); err != nil {
		return fmt.Errorf("harvest: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// setDefaults registers every default value with viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.development", false)

	v.SetDefault("harvest.parallel", false)
	v.SetDefault("harvest.workers", defaultWorkers)
	v.SetDefault("harvest.fetch_delay", defaultFetchDelay)
	v.SetDefault("harvest.timeout", defaultTimeout)
	v.SetDefault("harvest.user_agent", defaultUserAgent)

	v.SetDefault("output.dir", defaultOutputDir)
	v.SetDefault("output.format", FormatCSV)

	v.SetDefault("kleague.enable_stats", false)
}

// Load reads configuration from the optional YAML file at path and from
// MATCHCRAWL_* environment variables, then validates it. An empty path
// means defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MATCHCRAWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
