package wordclass

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// buildCorpus numbers words by first appearance and counts adjacent pairs.
func buildCorpus(tokens []string) *Corpus {
	ids := make(map[string]int)
	c := &Corpus{Occurrences: make(map[Bigram]int)}
	seq := make([]int, len(tokens))
	for i, tok := range tokens {
		id, ok := ids[tok]
		if !ok {
			id = len(c.Words)
			ids[tok] = id
			c.Words = append(c.Words, tok)
			c.WordCounts = append(c.WordCounts, 0)
		}
		c.WordCounts[id]++
		seq[i] = id
	}
	c.VocabularySize = len(c.Words)
	c.CorpusLength = len(tokens)
	c.PL = make([]float64, c.VocabularySize)
	c.PR = make([]float64, c.VocabularySize)
	t := float64(c.Transitions())
	for i := 0; i+1 < len(seq); i++ {
		c.Occurrences[Bigram{seq[i], seq[i+1]}]++
		c.PL[seq[i]] += 1 / t
		c.PR[seq[i+1]] += 1 / t
	}
	return c
}

// abcdCorpus is "a a b c d c": bigrams a→a, a→b, b→c, c→d, d→c.
func abcdCorpus() *Corpus {
	return buildCorpus(strings.Fields("a a b c d c"))
}

func sentenceCorpus() *Corpus {
	return buildCorpus(strings.Fields(
		"the cat sat on the mat the dog sat on the log a cat and a dog ran to the mat " +
			"the cat ran on the log and the dog sat"))
}

// randomCorpus draws tokens from a skewed distribution over vocabulary words
// so that low ids are the frequent ones.
func randomCorpus(seed int64, vocabulary, length int) *Corpus {
	rng := rand.New(rand.NewSource(seed))
	tokens := make([]string, length)
	for i := range tokens {
		w := int(float64(vocabulary) * rng.Float64() * rng.Float64())
		tokens[i] = fmt.Sprintf("w%d", w)
	}
	return buildCorpus(tokens)
}

// withGrain lowers the parallel split threshold for the duration of the test
// so that small inputs are spread over several workers.
func withGrain(t *testing.T, grain int) {
	t.Helper()
	old := parallelGrain
	parallelGrain = grain
	t.Cleanup(func() { parallelGrain = old })
}

func testConfig(workers int) Config {
	cfg := DefaultConfig()
	cfg.Workers = workers
	cfg.Seed = 7
	return cfg
}
