package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/TrevorS/wordclass"
	"github.com/TrevorS/wordclass/corpusio"
	"github.com/TrevorS/wordclass/internal/config"
	"go.uber.org/zap"
)

// clusteringFacts is the JSON summary written by the ami command.
type clusteringFacts struct {
	Corpus             string  `json:"corpus"`
	Clustering         string  `json:"clustering"`
	VocabularySize     int     `json:"vocabulary_size"`
	CorpusLength       int     `json:"corpus_length"`
	NumClusters        int     `json:"number_clusters"`
	AMI                float64 `json:"ami"`
	ClusterFrequencies []int   `json:"cluster_frequencies"`
}

// readClustering loads the corpus of cfg and the flat clustering over it.
func readClustering(cfg config.Config, log *zap.Logger) (*wordclass.Corpus, []int, int, error) {
	c, err := loadCorpus(cfg, log)
	if err != nil {
		return nil, nil, 0, err
	}
	f, err := os.Open(cfg.Clustering.File)
	if err != nil {
		return nil, nil, 0, err
	}
	defer f.Close()
	assignments, k, err := corpusio.ReadClusters(f, c, log)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read %s: %w", cfg.Clustering.File, err)
	}
	log.Info("clustering read",
		zap.String("clusters_file", cfg.Clustering.File),
		zap.Int("words", len(assignments)),
		zap.Int("clusters", k),
	)
	return c, assignments, k, nil
}

func runAMI(cfg config.Config, log *zap.Logger) error {
	c, assignments, k, err := readClustering(cfg, log)
	if err != nil {
		return err
	}
	e, err := wordclass.NewExchange(c, wordclass.Config{Workers: cfg.Workers, Logger: log})
	if err != nil {
		return err
	}
	if err := e.Initialize(k, assignments); err != nil {
		return err
	}
	freq, err := corpusio.ClusterFrequency(c, assignments)
	if err != nil {
		return err
	}
	facts := clusteringFacts{
		Corpus:             cfg.Input,
		Clustering:         cfg.Clustering.File,
		VocabularySize:     c.VocabularySize,
		CorpusLength:       c.CorpusLength,
		NumClusters:        k,
		AMI:                e.CalculateAMI(),
		ClusterFrequencies: freq,
	}
	err = writeFile(cfg.Output, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(facts)
	})
	if err != nil {
		return err
	}
	log.Info("ami done", zap.Float64("ami", facts.AMI), zap.Int("clusters", k), zap.String("output", cfg.Output))
	return nil
}

// runBrownOverClusters builds a Brown hierarchy whose leaves are the clusters
// of an existing flat clustering.
func runBrownOverClusters(cfg config.Config, log *zap.Logger, metrics *wordclass.Metrics) error {
	c, assignments, k, err := readClustering(cfg, log)
	if err != nil {
		return err
	}
	cc, err := corpusio.ClusterCorpus(c, assignments)
	if err != nil {
		return err
	}
	b, err := wordclass.NewBrown(cc, wordclass.Config{
		Workers: cfg.Workers,
		Logger:  log,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}
	if _, err := b.Cluster(k, k); err != nil {
		return err
	}
	tree, err := b.MergeTree()
	if err != nil {
		return err
	}

	outputs := []struct {
		suffix string
		write  func(io.Writer) error
	}{
		{"_paths.txt", func(w io.Writer) error { return corpusio.WriteClusterPaths(w, c, assignments, tree) }},
		{"_merges.txt", func(w io.Writer) error { return corpusio.WriteMerges(w, cc, tree) }},
	}
	for _, out := range outputs {
		path := cfg.Output + out.suffix
		if err := writeFile(path, out.write); err != nil {
			return err
		}
		log.Info("wrote", zap.String("path", path))
	}
	log.Info("brown over clusters done", zap.Int("clusters", k))
	return nil
}
