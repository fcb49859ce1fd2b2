package main

import (
	"io"

	"github.com/TrevorS/wordclass"
	"github.com/TrevorS/wordclass/corpusio"
	"github.com/TrevorS/wordclass/internal/config"
	"go.uber.org/zap"
)

func runBrown(cfg config.Config, log *zap.Logger, metrics *wordclass.Metrics) error {
	c, err := loadCorpus(cfg, log)
	if err != nil {
		return err
	}
	b, err := wordclass.NewBrown(c, wordclass.Config{
		Workers: cfg.Workers,
		Logger:  log,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}
	assignments, err := b.Cluster(cfg.Brown.Clusters, cfg.Brown.Window)
	if err != nil {
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
		{"_clusters.txt", func(w io.Writer) error { return corpusio.WriteClusters(w, c, assignments) }},
		{"_paths.txt", func(w io.Writer) error { return corpusio.WritePaths(w, c, tree) }},
		{"_merges.txt", func(w io.Writer) error { return corpusio.WriteMerges(w, c, tree) }},
		{"_interaction.json", func(w io.Writer) error { return corpusio.WriteClusterInteraction(w, c, assignments) }},
	}
	for _, out := range outputs {
		path := cfg.Output + out.suffix
		if err := writeFile(path, out.write); err != nil {
			return err
		}
		log.Info("wrote", zap.String("path", path))
	}
	log.Info("brown done", zap.Float64("ami", wordclass.ClusterAMI(c, assignments, cfg.Brown.Clusters)))
	return nil
}
