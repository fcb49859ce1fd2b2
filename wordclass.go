package wordclass

import (
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// DefaultMinAMIChange is the minimum AMI gain between two Exchange iterations
// below which a pass without moves ends the run.
const DefaultMinAMIChange = 0.0001

// Config controls engine behavior shared by Exchange, StochasticExchange and
// Brown. Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Workers controls the number of goroutines used for the per-candidate
	// delta computation in Exchange, the pairwise loss search in Brown and the
	// row/column refreshes after each move or merge. 0 means runtime.NumCPU().
	// Results are identical for every worker count.
	Workers int

	// Randomness is the percentage of per-word decisions in which
	// StochasticExchange moves the word to a uniformly random cluster instead
	// of the greedy choice. Must be in [0, 100]. Ignored by Exchange and Brown.
	Randomness float64

	// Seed seeds the random source of StochasticExchange. 0 means a
	// time-based seed.
	Seed int64

	// Logger receives progress messages. nil means no logging.
	Logger *zap.Logger

	// Metrics receives counters and the current AMI. nil disables metrics.
	Metrics *Metrics
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Logger: zap.NewNop(),
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("wordclass: Workers must be >= 0 (0 means NumCPU), got %d: %w", cfg.Workers, ErrInvalidParameter)
	}
	if cfg.Randomness < 0 || cfg.Randomness > 100 {
		return fmt.Errorf("wordclass: Randomness must be in [0, 100], got %f: %w", cfg.Randomness, ErrInvalidParameter)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
}

// prepareConfig applies defaults and validates in one step; every engine
// constructor goes through it.
func prepareConfig(cfg Config) (Config, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
