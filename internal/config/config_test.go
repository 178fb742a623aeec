package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/matchcrawl/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Harvest.Parallel)
	assert.Equal(t, 4, cfg.Harvest.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Harvest.FetchDelay)
	assert.Equal(t, 30*time.Second, cfg.Harvest.Timeout)
	assert.NotEmpty(t, cfg.Harvest.UserAgent)
	assert.Equal(t, "data", cfg.Output.Dir)
	assert.Equal(t, config.FormatCSV, cfg.Output.Format)
	assert.False(t, cfg.KLeague.EnableStats)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
logger:
  level: debug
harvest:
  parallel: true
  workers: 8
  fetch_delay: 250ms
output:
  format: both
kleague:
  enable_stats: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Harvest.Parallel)
	assert.Equal(t, 8, cfg.Harvest.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Harvest.FetchDelay)
	assert.Equal(t, config.FormatBoth, cfg.Output.Format)
	assert.True(t, cfg.KLeague.EnableStats)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestHarvestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.HarvestConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*config.HarvestConfig) {},
		},
		{
			name:    "zero workers",
			mutate:  func(c *config.HarvestConfig) { c.Workers = 0 },
			wantErr: "workers",
		},
		{
			name:    "too many workers",
			mutate:  func(c *config.HarvestConfig) { c.Workers = 64 },
			wantErr: "workers",
		},
		{
			name:    "negative delay",
			mutate:  func(c *config.HarvestConfig) { c.FetchDelay = -time.Second },
			wantErr: "fetch_delay",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *config.HarvestConfig) { c.Timeout = 0 },
			wantErr: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.HarvestConfig{
				Workers:    4,
				FetchDelay: 500 * time.Millisecond,
				Timeout:    30 * time.Second,
			}
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestOutputConfigValidate(t *testing.T) {
	valid := config.OutputConfig{Dir: "data", Format: config.FormatSQLite}
	assert.NoError(t, valid.Validate())

	empty := config.OutputConfig{Format: config.FormatCSV}
	assert.Error(t, empty.Validate())

	badFormat := config.OutputConfig{Dir: "data", Format: "xml"}
	err := badFormat.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}
