package wordclass

import (
	"errors"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Workers != 0 {
		t.Errorf("Workers: got %d, want 0", cfg.Workers)
	}
	if cfg.Randomness != 0 {
		t.Errorf("Randomness: got %f, want 0", cfg.Randomness)
	}
	if cfg.Logger == nil {
		t.Error("Logger: got nil, want a no-op logger")
	}
	if cfg.Metrics != nil {
		t.Error("Metrics: got non-nil, want nil")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg, err := prepareConfig(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers: got %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.Logger == nil {
		t.Error("Logger: got nil")
	}
	if cfg.Seed == 0 {
		t.Error("Seed: got 0, want a time-based seed")
	}

	cfg, err = prepareConfig(Config{Workers: 3, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 3 || cfg.Seed != 42 {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative Workers", func(c *Config) { c.Workers = -2 }},
		{"negative Randomness", func(c *Config) { c.Randomness = -0.5 }},
		{"Randomness over 100", func(c *Config) { c.Randomness = 100.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewExchange(abcdCorpus(), cfg); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("NewExchange: got %v, want ErrInvalidParameter", err)
			}
			if _, err := NewBrown(abcdCorpus(), cfg); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("NewBrown: got %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestEnginesRejectInvalidCorpus(t *testing.T) {
	c := abcdCorpus()
	c.CorpusLength = 1
	if _, err := NewExchange(c, DefaultConfig()); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("NewExchange: got %v", err)
	}
	if _, err := NewBrown(c, DefaultConfig()); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("NewBrown: got %v", err)
	}
}
