// Package config holds the settings of a wordclass command-line run. Values are
// read from an optional YAML file over built-in defaults; command-line flags
// are applied on top by the caller and the result is validated per command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TrevorS/wordclass"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Exchange algorithm names accepted by the exchange command.
const (
	AlgorithmExchange           = "EXCHANGE"
	AlgorithmExchangeSteps      = "EXCHANGE_STEPS"
	AlgorithmStochasticExchange = "STOCHASTIC_EXCHANGE"
)

// Commands with their own config section.
const (
	CommandCorpus            = "corpus"
	CommandExchange          = "exchange"
	CommandBrown             = "brown"
	CommandAMI               = "ami"
	CommandBrownOverClusters = "brown-over-clusters"
)

// Config is the full run configuration.
type Config struct {
	Run `yaml:",inline"`

	Corpus     Corpus     `yaml:"corpus"`
	Exchange   Exchange   `yaml:"exchange"`
	Brown      Brown      `yaml:"brown"`
	Clustering Clustering `yaml:"clustering"`
}

// Run holds the settings shared by every command.
type Run struct {
	Input   string `yaml:"input" validate:"required"`
	Output  string `yaml:"output" validate:"required"`
	Workers int    `yaml:"workers" validate:"gte=0"`
	// LogLevel is a zap level name.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
	// MetricsAddr, when set, serves Prometheus metrics during the run.
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// Corpus controls how text is turned into a corpus.
type Corpus struct {
	// SkipGram > 0 builds an unordered skip-gram corpus of that width.
	SkipGram int `yaml:"skip_gram" validate:"gte=0,required_with=Vocabulary"`
	// Vocabulary restricts a skip-gram corpus to the words of a vocabulary
	// file; other tokens still take a place in the window.
	Vocabulary string `yaml:"vocabulary"`
	// Threshold drops words seen fewer times; values below 2 keep every word.
	Threshold int  `yaml:"threshold" validate:"gte=0"`
	Strict    bool `yaml:"strict"`
}

// Exchange controls the exchange command.
type Exchange struct {
	Clusters     int     `yaml:"clusters" validate:"gte=2"`
	Iterations   int     `yaml:"iterations" validate:"gte=0"`
	MinAMIChange float64 `yaml:"min_ami_change"`
	Algorithm    string  `yaml:"algorithm" validate:"oneof=EXCHANGE EXCHANGE_STEPS STOCHASTIC_EXCHANGE"`
	Randomness   float64 `yaml:"randomness" validate:"gte=0,lte=100"`
	Seed         int64   `yaml:"seed"`
}

// Brown controls the brown command.
type Brown struct {
	Clusters int `yaml:"clusters" validate:"gte=2"`
	Window   int `yaml:"window" validate:"gtefield=Clusters"`
}

// Clustering names an existing flat clustering, in the format the exchange
// and brown commands write.
type Clustering struct {
	File string `yaml:"file" validate:"required"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Run: Run{LogLevel: "info"},
		Exchange: Exchange{
			Clusters:     500,
			Iterations:   20,
			MinAMIChange: wordclass.DefaultMinAMIChange,
			Algorithm:    AlgorithmExchange,
		},
		Brown: Brown{
			Clusters: 500,
			Window:   600,
		},
	}
}

// Load reads YAML from path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse reads YAML from data over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the shared settings and the section of command.
func (c *Config) Validate(command string) error {
	if err := validateStruct(c.Run); err != nil {
		return err
	}
	switch command {
	case CommandCorpus:
		return validateStruct(c.Corpus)
	case CommandExchange:
		return validateStruct(c.Exchange)
	case CommandBrown:
		if err := validateStruct(c.Corpus); err != nil {
			return err
		}
		return validateStruct(c.Brown)
	case CommandAMI, CommandBrownOverClusters:
		if err := validateStruct(c.Corpus); err != nil {
			return err
		}
		return validateStruct(c.Clustering)
	default:
		return fmt.Errorf("config: unknown command %q", command)
	}
}

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, e.Param())
	case "required_with":
		return fmt.Sprintf("%s is required with %s", field, strings.ToLower(e.Param()))
	case "gtefield":
		return fmt.Sprintf("%s must be >= %s", field, strings.ToLower(e.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
