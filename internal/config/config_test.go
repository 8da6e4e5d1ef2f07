package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitos/lighter_connector/internal/config"
)

func validConfig() *config.Config {
	var cfg config.Config
	cfg.Venue.RESTEndpoint = "https://mainnet.zklighter.elliot.ai"
	cfg.Venue.L1Address = "0xowner"
	cfg.Fill.PollIntervalSec = 0.5
	cfg.Fill.TimeoutSec = 30
	return &cfg
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_FailsFast(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "missing rest endpoint",
			mutate: func(c *config.Config) { c.Venue.RESTEndpoint = "" },
			want:   "rest_endpoint",
		},
		{
			name:   "missing l1 address",
			mutate: func(c *config.Config) { c.Venue.L1Address = "" },
			want:   "l1_address",
		},
		{
			name:   "missing poll interval",
			mutate: func(c *config.Config) { c.Fill.PollIntervalSec = 0 },
			want:   "poll_interval_sec",
		},
		{
			name:   "negative poll interval",
			mutate: func(c *config.Config) { c.Fill.PollIntervalSec = -1 },
			want:   "poll_interval_sec",
		},
		{
			name:   "missing timeout",
			mutate: func(c *config.Config) { c.Fill.TimeoutSec = 0 },
			want:   "timeout_sec",
		},
		{
			name: "interval exceeds timeout",
			mutate: func(c *config.Config) {
				c.Fill.PollIntervalSec = 60
				c.Fill.TimeoutSec = 30
			},
			want: "must not exceed",
		},
		{
			name:   "bad position policy",
			mutate: func(c *config.Config) { c.Positions.OnError = "panic" },
			want:   "on_error",
		},
		{
			name:   "bad ledger backend",
			mutate: func(c *config.Config) { c.Ledger.Backend = "postgres" },
			want:   "backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, 30*time.Second, cfg.FillTimeout())
}

func TestOnPositionError_Default(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, config.PositionErrorEmpty, cfg.OnPositionError())

	cfg.Positions.OnError = config.PositionErrorFail
	assert.Equal(t, config.PositionErrorFail, cfg.OnPositionError())
}

func TestLoad_FromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
venue:
  name: lighter
  rest_endpoint: https://file.example
  l1_address: "0xfile"
fill:
  poll_interval_sec: 1
  timeout_sec: 10
positions:
  on_error: fail
ledger:
  backend: jsonl
  path: trades.jsonl
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("LIGHTER_BASE_ENDPOINT", "https://env.example")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.Venue.RESTEndpoint)
	assert.Equal(t, "0xfile", cfg.Venue.L1Address)
	assert.Equal(t, config.PositionErrorFail, cfg.OnPositionError())
	assert.Equal(t, "jsonl", cfg.Ledger.Backend)
}

func TestLoad_RejectsIncomplete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
venue:
  rest_endpoint: https://file.example
  l1_address: "0xfile"
fill:
  poll_interval_sec: 1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout_sec")
}
