package corpusio

import (
	"fmt"
	"sort"

	"github.com/TrevorS/wordclass"
)

func checkCounts(c *wordclass.Corpus) error {
	if len(c.WordCounts) != c.VocabularySize {
		return fmt.Errorf("corpusio: corpus has %d word counts for %d words: %w",
			len(c.WordCounts), c.VocabularySize, wordclass.ErrInvalidParameter)
	}
	return nil
}

// remap copies c onto the ids given by newID; words mapped to -1 are dropped
// together with every bigram touching them. Marginals and corpus length are
// copied unchanged.
func remap(c *wordclass.Corpus, newID []int, size int) *wordclass.Corpus {
	out := &wordclass.Corpus{
		VocabularySize: size,
		CorpusLength:   c.CorpusLength,
		PL:             make([]float64, size),
		PR:             make([]float64, size),
		Occurrences:    make(map[wordclass.Bigram]int),
		WordCounts:     make([]int, size),
	}
	if len(c.Words) > 0 {
		out.Words = make([]string, size)
	}
	for old, id := range newID {
		if id < 0 {
			continue
		}
		out.PL[id] = c.PL[old]
		out.PR[id] = c.PR[old]
		out.WordCounts[id] = c.WordCounts[old]
		if old < len(c.Words) {
			out.Words[id] = c.Words[old]
		}
	}
	for b, n := range c.Occurrences {
		l, r := newID[b.Left], newID[b.Right]
		if l < 0 || r < 0 {
			continue
		}
		out.Occurrences[wordclass.Bigram{Left: l, Right: r}] = n
	}
	return out
}

// ReorderByFrequency renumbers the words of c by decreasing token count.
// Words with equal counts keep their relative order. c is not modified.
func ReorderByFrequency(c *wordclass.Corpus) (*wordclass.Corpus, error) {
	if err := checkCounts(c); err != nil {
		return nil, err
	}
	order := make([]int, c.VocabularySize)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return c.WordCounts[order[i]] > c.WordCounts[order[j]]
	})
	newID := make([]int, c.VocabularySize)
	for id, old := range order {
		newID[old] = id
	}
	return remap(c, newID, c.VocabularySize), nil
}

// FilterByThreshold keeps the words seen at least minCount times, in their
// current order, and drops every bigram touching a removed word.
//
// In strict mode the surviving words keep their marginals and the corpus keeps
// its length, so the probability mass of the removed words is lost. Otherwise
// marginals and length are recomputed from the surviving bigrams.
func FilterByThreshold(c *wordclass.Corpus, minCount int, strict bool) (*wordclass.Corpus, error) {
	if err := checkCounts(c); err != nil {
		return nil, err
	}
	newID := make([]int, c.VocabularySize)
	size := 0
	for w := 0; w < c.VocabularySize; w++ {
		if c.WordCounts[w] >= minCount {
			newID[w] = size
			size++
		} else {
			newID[w] = -1
		}
	}
	if size == 0 {
		return nil, fmt.Errorf("corpusio: no word reaches threshold %d: %w", minCount, wordclass.ErrInvalidParameter)
	}
	out := remap(c, newID, size)
	if strict {
		return out, nil
	}

	left := make([]int, size)
	right := make([]int, size)
	transitions := 0
	for b, n := range out.Occurrences {
		left[b.Left] += n
		right[b.Right] += n
		transitions += n
	}
	if transitions == 0 {
		return nil, fmt.Errorf("corpusio: no bigram survives threshold %d: %w", minCount, wordclass.ErrInvalidParameter)
	}
	t := float64(transitions)
	for w := 0; w < size; w++ {
		out.PL[w] = float64(left[w]) / t
		out.PR[w] = float64(right[w]) / t
	}
	out.CorpusLength = transitions + 1
	return out, nil
}
