package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/TrevorS/wordclass"
	"github.com/TrevorS/wordclass/corpusio"
	"github.com/TrevorS/wordclass/internal/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// experiment is the JSON log written next to the clusters of an exchange run.
type experiment struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	Algorithm     string    `json:"algorithm"`
	NumClusters   int       `json:"num_clusters"`
	NumIterations int       `json:"num_iterations"`
	TotalWords    int       `json:"total_words"`
	Workers       int       `json:"workers"`

	Iterations int     `json:"iterations_exchange"`
	AMI        float64 `json:"ami_exchange"`
	// DurationMS is the time of the whole clustering for EXCHANGE.
	DurationMS int64 `json:"duration_exchange,omitempty"`

	// Per-iteration records of the stepwise algorithms. AMIProgression starts
	// with the AMI of the initial clustering.
	AMIProgression []float64 `json:"ami_progression,omitempty"`
	Durations      []int64   `json:"durations,omitempty"`
	Swaps          []int     `json:"swaps,omitempty"`

	PercentageRandomSwaps float64 `json:"percentage_random_swaps,omitempty"`
}

// stepper runs Exchange one pass at a time.
type stepper interface {
	Initialize(numClusters int, assignments []int) error
	ClusterOneIteration(minAMIChange float64) (bool, error)
	ChangesInPreviousIteration() int
	CalculateAMI() float64
	ClusterAssignments() []int
}

func runExchange(ctx context.Context, cfg config.Config, log *zap.Logger, metrics *wordclass.Metrics) error {
	c, err := loadCorpus(cfg, log)
	if err != nil {
		return err
	}
	ec := cfg.Exchange
	wcfg := wordclass.Config{
		Workers:    cfg.Workers,
		Randomness: ec.Randomness,
		Seed:       ec.Seed,
		Logger:     log,
		Metrics:    metrics,
	}
	exp := &experiment{
		RunID:         uuid.NewString(),
		StartedAt:     time.Now().UTC(),
		Algorithm:     ec.Algorithm,
		NumClusters:   ec.Clusters,
		NumIterations: ec.Iterations,
		TotalWords:    c.VocabularySize,
		Workers:       cfg.Workers,
	}
	log = log.With(zap.String("run_id", exp.RunID))
	log.Info("starting exchange",
		zap.String("algorithm", ec.Algorithm),
		zap.Int("clusters", ec.Clusters),
		zap.Int("iterations", ec.Iterations),
	)

	var assignments []int
	switch ec.Algorithm {
	case config.AlgorithmExchange:
		ex, err := wordclass.NewExchange(c, wcfg)
		if err != nil {
			return err
		}
		start := time.Now()
		if assignments, err = ex.Cluster(ec.Clusters, ec.Iterations, ec.MinAMIChange); err != nil {
			return err
		}
		exp.DurationMS = time.Since(start).Milliseconds()
		exp.Iterations = ex.Iterations()
		exp.AMI = ex.CalculateAMI()
	case config.AlgorithmExchangeSteps:
		ex, err := wordclass.NewExchange(c, wcfg)
		if err != nil {
			return err
		}
		if assignments, err = runSteps(ctx, ex, c, cfg, exp); err != nil {
			return err
		}
	case config.AlgorithmStochasticExchange:
		ex, err := wordclass.NewStochasticExchange(c, wcfg)
		if err != nil {
			return err
		}
		exp.PercentageRandomSwaps = ex.Randomness()
		if assignments, err = runSteps(ctx, ex, c, cfg, exp); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown algorithm %q", ec.Algorithm)
	}

	if err := writeClusters(cfg.Output+".txt", c, assignments); err != nil {
		return err
	}
	if err := writeExperiment(cfg.Output+".json", exp); err != nil {
		return err
	}
	log.Info("exchange done", zap.Float64("ami", exp.AMI), zap.Int("iterations", exp.Iterations))
	return nil
}

// runSteps drives s one pass at a time, writing the clusters of every pass to
// prefix_<pass>.txt and refreshing the experiment log as it goes.
func runSteps(ctx context.Context, s stepper, c *wordclass.Corpus, cfg config.Config, exp *experiment) ([]int, error) {
	ec := cfg.Exchange
	if err := s.Initialize(ec.Clusters, nil); err != nil {
		return nil, err
	}
	exp.AMIProgression = append(exp.AMIProgression, s.CalculateAMI())
	exp.AMI = exp.AMIProgression[0]
	if err := writeClusters(fmt.Sprintf("%s_0.txt", cfg.Output), c, s.ClusterAssignments()); err != nil {
		return nil, err
	}

	for i := 1; i <= ec.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		converged, err := s.ClusterOneIteration(ec.MinAMIChange)
		if err != nil {
			return nil, err
		}
		exp.Durations = append(exp.Durations, time.Since(start).Milliseconds())
		exp.AMI = s.CalculateAMI()
		exp.AMIProgression = append(exp.AMIProgression, exp.AMI)
		exp.Swaps = append(exp.Swaps, s.ChangesInPreviousIteration())
		exp.Iterations = i
		if converged {
			break
		}
		if err := writeExperiment(cfg.Output+".json", exp); err != nil {
			return nil, err
		}
		if err := writeClusters(fmt.Sprintf("%s_%d.txt", cfg.Output, i), c, s.ClusterAssignments()); err != nil {
			return nil, err
		}
	}
	return s.ClusterAssignments(), nil
}

func writeClusters(path string, c *wordclass.Corpus, assignments []int) error {
	return writeFile(path, func(w io.Writer) error { return corpusio.WriteClusters(w, c, assignments) })
}

func writeExperiment(path string, exp *experiment) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(exp)
	})
}
