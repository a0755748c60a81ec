package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration for the wargame service. Values come
// from the environment with defaults matching the original deployment.
type Config struct {
	// Addr is the listen address of the HTTP API.
	Addr string

	// OracleURL is the base URL of the agent service fronting the LLMs.
	OracleURL string

	// DefaultPeriods and PeriodUnit apply when a request leaves them unset.
	DefaultPeriods int
	PeriodUnit     string

	// MovesPerOpponent is how many candidate moves each opponent proposes
	// per period.
	MovesPerOpponent int

	// ScenarioCeiling caps total terminal scenarios per search; the horizon
	// is reduced to stay under it.
	ScenarioCeiling int

	// BatchSize is the max scenarios per ScoreOracle call.
	BatchSize int

	// BatchRetries is how many times a failed scoring batch is reissued.
	BatchRetries int

	// CallTimeout bounds each individual oracle call.
	CallTimeout time.Duration
}

func Default() Config {
	return Config{
		Addr:             ":8080",
		OracleURL:        "http://localhost:8081",
		DefaultPeriods:   4,
		PeriodUnit:       "quarter",
		MovesPerOpponent: 2,
		ScenarioCeiling:  1500,
		BatchSize:        100,
		BatchRetries:     1,
		CallTimeout:      60 * time.Second,
	}
}

// FromEnv overlays WARGAME_* environment variables on the defaults.
func FromEnv() Config {
	c := Default()
	if v := os.Getenv("WARGAME_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("WARGAME_ORACLE_URL"); v != "" {
		c.OracleURL = v
	}
	c.DefaultPeriods = envInt("WARGAME_DEFAULT_PERIODS", c.DefaultPeriods)
	if v := os.Getenv("WARGAME_PERIOD_UNIT"); v != "" {
		c.PeriodUnit = v
	}
	c.MovesPerOpponent = envInt("WARGAME_MOVES_PER_OPPONENT", c.MovesPerOpponent)
	c.ScenarioCeiling = envInt("WARGAME_SCENARIO_CEILING", c.ScenarioCeiling)
	c.BatchSize = envInt("WARGAME_BATCH_SIZE", c.BatchSize)
	c.BatchRetries = envInt("WARGAME_BATCH_RETRIES", c.BatchRetries)
	if v := os.Getenv("WARGAME_CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CallTimeout = d
		}
	}
	return c
}

// Validate ensures the configuration is well-formed before serving.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address must be set")
	}
	if c.OracleURL == "" {
		return errors.New("oracle URL must be set")
	}
	if c.DefaultPeriods < 1 {
		return fmt.Errorf("default periods must be >= 1, got %d", c.DefaultPeriods)
	}
	if c.MovesPerOpponent < 1 {
		return fmt.Errorf("moves per opponent must be >= 1, got %d", c.MovesPerOpponent)
	}
	if c.ScenarioCeiling < 1 {
		return fmt.Errorf("scenario ceiling must be >= 1, got %d", c.ScenarioCeiling)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1, got %d", c.BatchSize)
	}
	if c.BatchRetries < 0 {
		return fmt.Errorf("batch retries must be >= 0, got %d", c.BatchRetries)
	}
	if c.CallTimeout <= 0 {
		return errors.New("call timeout must be positive")
	}
	return nil
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
