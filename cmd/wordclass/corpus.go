package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TrevorS/wordclass"
	"github.com/TrevorS/wordclass/corpusio"
	"github.com/TrevorS/wordclass/internal/config"
	"go.uber.org/zap"
)

// corpusExt marks inputs that are saved corpora rather than text.
const corpusExt = ".corpus"

func runCorpus(cfg config.Config, log *zap.Logger) error {
	c, err := buildCorpus(cfg, log)
	if err != nil {
		return err
	}
	if err := corpusio.SaveFile(cfg.Output, c); err != nil {
		return err
	}
	vocabPath := cfg.Output + ".vocab"
	if err := writeFile(vocabPath, func(w io.Writer) error { return corpusio.WriteVocabulary(w, c) }); err != nil {
		return err
	}
	log.Info("corpus written", zap.String("output", cfg.Output), zap.String("vocabulary", vocabPath))
	return nil
}

// buildCorpus reads text from cfg.Input, numbers words by decreasing
// frequency and applies the threshold filter.
func buildCorpus(cfg config.Config, log *zap.Logger) (*wordclass.Corpus, error) {
	f, err := os.Open(cfg.Input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c *wordclass.Corpus
	switch {
	case cfg.Corpus.Vocabulary != "":
		var vocab []corpusio.VocabularyEntry
		if vocab, err = readVocabulary(cfg.Corpus.Vocabulary); err != nil {
			return nil, err
		}
		c, err = corpusio.ReadSkipGramsWithVocabulary(f, vocab, cfg.Corpus.SkipGram)
	case cfg.Corpus.SkipGram > 0:
		c, err = corpusio.ReadSkipGrams(f, cfg.Corpus.SkipGram)
	default:
		c, err = corpusio.ReadTokens(f)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cfg.Input, err)
	}
	log.Info("corpus read",
		zap.String("input", cfg.Input),
		zap.Int("vocabulary", c.VocabularySize),
		zap.Int("length", c.CorpusLength),
		zap.Int("skip_gram", cfg.Corpus.SkipGram),
		zap.String("vocabulary_file", cfg.Corpus.Vocabulary),
	)

	if c, err = corpusio.ReorderByFrequency(c); err != nil {
		return nil, err
	}
	return filterCorpus(c, cfg, log)
}

func readVocabulary(path string) ([]corpusio.VocabularyEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	vocab, err := corpusio.ReadVocabulary(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vocab, nil
}

// filterCorpus applies the threshold filter of cfg, if any.
func filterCorpus(c *wordclass.Corpus, cfg config.Config, log *zap.Logger) (*wordclass.Corpus, error) {
	if cfg.Corpus.Threshold <= 1 {
		return c, nil
	}
	c, err := corpusio.FilterByThreshold(c, cfg.Corpus.Threshold, cfg.Corpus.Strict)
	if err != nil {
		return nil, err
	}
	log.Info("corpus filtered",
		zap.Int("threshold", cfg.Corpus.Threshold),
		zap.Bool("strict", cfg.Corpus.Strict),
		zap.Int("vocabulary", c.VocabularySize),
		zap.Int("length", c.CorpusLength),
	)
	return c, nil
}

// loadCorpus opens a saved corpus or builds one from text, depending on the
// input extension. The threshold filter applies to both; text-reading
// settings are rejected for a saved corpus.
func loadCorpus(cfg config.Config, log *zap.Logger) (*wordclass.Corpus, error) {
	if !strings.HasSuffix(cfg.Input, corpusExt) {
		return buildCorpus(cfg, log)
	}
	if cfg.Corpus.SkipGram > 0 || cfg.Corpus.Vocabulary != "" {
		return nil, fmt.Errorf("%s is a saved corpus; skip_gram and vocabulary only apply to text", cfg.Input)
	}
	c, err := corpusio.LoadFile(cfg.Input)
	if err != nil {
		return nil, err
	}
	log.Info("corpus loaded",
		zap.String("input", cfg.Input),
		zap.Int("vocabulary", c.VocabularySize),
		zap.Int("length", c.CorpusLength),
	)
	return filterCorpus(c, cfg, log)
}

// writeFile creates path and hands it to fn.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
