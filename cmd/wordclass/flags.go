package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/TrevorS/wordclass/internal/config"
)

// newFlagSet binds the flags of command to cfg. The -config path is written
// to configPath.
func newFlagSet(command string, cfg *config.Config, configPath *string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(configPath, "config", "", "YAML file with run settings; flags override it")
	fs.StringVar(&cfg.Input, "input", cfg.Input, "input file")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output file or prefix")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker goroutines, 0 for one per CPU")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on host:port")

	switch command {
	case config.CommandCorpus:
		fs.IntVar(&cfg.Corpus.SkipGram, "skip", cfg.Corpus.SkipGram, "build an unordered skip-gram corpus of this width")
		fs.StringVar(&cfg.Corpus.Vocabulary, "vocab", cfg.Corpus.Vocabulary,
			"keep only the words of this vocabulary file in a skip-gram corpus")
		fs.IntVar(&cfg.Corpus.Threshold, "threshold", cfg.Corpus.Threshold, "drop words seen fewer times")
		fs.BoolVar(&cfg.Corpus.Strict, "strict", cfg.Corpus.Strict, "keep original marginals when filtering")
	case config.CommandExchange:
		fs.IntVar(&cfg.Exchange.Clusters, "clusters", cfg.Exchange.Clusters, "number of clusters")
		fs.IntVar(&cfg.Exchange.Iterations, "iterations", cfg.Exchange.Iterations, "maximum number of passes")
		fs.Float64Var(&cfg.Exchange.MinAMIChange, "min-ami", cfg.Exchange.MinAMIChange, "minimum AMI gain per pass")
		fs.StringVar(&cfg.Exchange.Algorithm, "algorithm", cfg.Exchange.Algorithm,
			"EXCHANGE, EXCHANGE_STEPS or STOCHASTIC_EXCHANGE")
		fs.Float64Var(&cfg.Exchange.Randomness, "randomness", cfg.Exchange.Randomness, "percentage of random moves")
		fs.Int64Var(&cfg.Exchange.Seed, "seed", cfg.Exchange.Seed, "random seed, 0 for time based")
	case config.CommandBrown:
		fs.IntVar(&cfg.Brown.Clusters, "clusters", cfg.Brown.Clusters, "number of clusters")
		fs.IntVar(&cfg.Brown.Window, "window", cfg.Brown.Window, "number of active clusters")
		fs.IntVar(&cfg.Corpus.Threshold, "threshold", cfg.Corpus.Threshold, "drop words seen fewer times")
		fs.BoolVar(&cfg.Corpus.Strict, "strict", cfg.Corpus.Strict, "keep original marginals when filtering")
	case config.CommandAMI, config.CommandBrownOverClusters:
		fs.StringVar(&cfg.Clustering.File, "clusters-file", cfg.Clustering.File, "flat clustering to read")
	}
	return fs
}

// parseCommand reads the command name and its flags. Flags are parsed twice
// when -config is given: once to find the file and once more over the loaded
// values so the command line wins.
func parseCommand(args []string, out io.Writer) (string, config.Config, error) {
	if len(args) == 0 {
		usage(out)
		return "", config.Config{}, errors.New("missing command")
	}
	command, args := args[0], args[1:]
	switch command {
	case config.CommandCorpus, config.CommandExchange, config.CommandBrown,
		config.CommandAMI, config.CommandBrownOverClusters:
	case "-h", "-help", "--help", "help":
		usage(out)
		return "", config.Config{}, flag.ErrHelp
	default:
		usage(out)
		return "", config.Config{}, fmt.Errorf("unknown command %q", command)
	}

	cfg := config.Default()
	var configPath string
	if err := newFlagSet(command, &cfg, &configPath, out).Parse(args); err != nil {
		return "", config.Config{}, err
	}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return "", config.Config{}, err
		}
		cfg = loaded
		if err := newFlagSet(command, &cfg, &configPath, io.Discard).Parse(args); err != nil {
			return "", config.Config{}, err
		}
	}
	if err := cfg.Validate(command); err != nil {
		return "", config.Config{}, err
	}
	return command, cfg, nil
}
