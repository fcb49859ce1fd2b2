// Command wordclass builds corpora and induces word classes with Exchange or
// Brown clustering.
//
// Usage:
//
//	wordclass corpus   -input text.txt -output text.corpus [-skip N [-vocab text.vocab]] [-threshold N -strict]
//	wordclass exchange -input text.corpus -output prefix -clusters K [-algorithm EXCHANGE]
//	wordclass brown    -input text.txt -output prefix -clusters K -window W
//	wordclass ami      -input text.corpus -clusters-file prefix_clusters.txt -output facts.json
//	wordclass brown-over-clusters -input text.corpus -clusters-file prefix_clusters.txt -output prefix
//
// Every command accepts -config run.yaml; flags given on the command line
// override values from the file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/TrevorS/wordclass/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, cfg, err := parseCommand(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := execute(ctx, command, cfg, log); err != nil {
		log.Error("run failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

// newLogger returns a production JSON logger writing to stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: wordclass <corpus|exchange|brown|ami|brown-over-clusters> [flags]")
	fmt.Fprintln(w, "run 'wordclass <command> -h' for the flags of a command")
}

// execute runs command with a validated cfg.
func execute(ctx context.Context, command string, cfg config.Config, log *zap.Logger) error {
	log = log.With(zap.String("command", command))

	metrics, shutdown, err := startMetrics(cfg.MetricsAddr, log)
	if err != nil {
		return err
	}
	defer shutdown()

	switch command {
	case config.CommandCorpus:
		return runCorpus(cfg, log)
	case config.CommandExchange:
		return runExchange(ctx, cfg, log, metrics)
	case config.CommandBrown:
		return runBrown(cfg, log, metrics)
	case config.CommandAMI:
		return runAMI(cfg, log)
	case config.CommandBrownOverClusters:
		return runBrownOverClusters(cfg, log, metrics)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
