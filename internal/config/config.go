package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PositionErrorPolicy controls what a position listing does when the account
// query fails: return an empty list or surface the error.
type PositionErrorPolicy string

const (
	PositionErrorEmpty PositionErrorPolicy = "empty"
	PositionErrorFail  PositionErrorPolicy = "fail"
)

type Config struct {
	Venue struct {
		Name         string  `yaml:"name"`
		RESTEndpoint string  `yaml:"rest_endpoint"`
		WSEndpoint   string  `yaml:"ws_endpoint"`
		L1Address    string  `yaml:"l1_address"`
		APIKeyIndex  int     `yaml:"api_key_index"`
		Symbols      []string `yaml:"symbols"`
	} `yaml:"venue"`

	Fill struct {
		// Both values are required. There is no safe default for how long to
		// watch an on-chain order, so a missing value is a startup error.
		PollIntervalSec float64 `yaml:"poll_interval_sec"`
		TimeoutSec      float64 `yaml:"timeout_sec"`
	} `yaml:"fill"`

	Positions struct {
		OnError PositionErrorPolicy `yaml:"on_error"`
	} `yaml:"positions"`

	Ledger struct {
		Backend string `yaml:"backend"` // "jsonl" or "sqlite"
		Path    string `yaml:"path"`
	} `yaml:"ledger"`

	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate fails fast on anything the connector cannot run without.
func (c *Config) Validate() error {
	if c.Venue.RESTEndpoint == "" {
		return fmt.Errorf("venue.rest_endpoint is required")
	}
	if c.Venue.L1Address == "" {
		return fmt.Errorf("venue.l1_address is required")
	}
	if c.Fill.PollIntervalSec <= 0 {
		return fmt.Errorf("fill.poll_interval_sec is required and must be positive")
	}
	if c.Fill.TimeoutSec <= 0 {
		return fmt.Errorf("fill.timeout_sec is required and must be positive")
	}
	if c.Fill.PollIntervalSec > c.Fill.TimeoutSec {
		return fmt.Errorf("fill.poll_interval_sec must not exceed fill.timeout_sec")
	}
	switch c.Positions.OnError {
	case "", PositionErrorEmpty, PositionErrorFail:
	default:
		return fmt.Errorf("positions.on_error must be %q or %q", PositionErrorEmpty, PositionErrorFail)
	}
	switch c.Ledger.Backend {
	case "", "jsonl", "sqlite":
	default:
		return fmt.Errorf("ledger.backend must be jsonl or sqlite")
	}
	return nil
}

// PollInterval returns the fill poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Fill.PollIntervalSec * float64(time.Second))
}

// FillTimeout returns the fill confirmation timeout as a duration.
func (c *Config) FillTimeout() time.Duration {
	return time.Duration(c.Fill.TimeoutSec * float64(time.Second))
}

// OnPositionError returns the configured policy, defaulting to the
// empty-list behavior.
func (c *Config) OnPositionError() PositionErrorPolicy {
	if c.Positions.OnError == "" {
		return PositionErrorEmpty
	}
	return c.Positions.OnError
}

// overrideWithEnv lets secrets and endpoints come from the environment
// instead of the config file.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("LIGHTER_BASE_ENDPOINT"); v != "" {
		cfg.Venue.RESTEndpoint = v
	}
	if v := os.Getenv("LIGHTER_L1_ADDRESS"); v != "" {
		cfg.Venue.L1Address = v
	}
}
