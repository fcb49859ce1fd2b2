package wordclass

import (
	"fmt"
	"sort"
)

// Bigram identifies an ordered pair of adjacent word ids.
type Bigram struct {
	Left, Right int
}

// Corpus holds the statistics both engines consume. It is never mutated by a
// clustering run.
type Corpus struct {
	// VocabularySize is the number of distinct word ids, 0..VocabularySize-1.
	VocabularySize int

	// CorpusLength is the number of tokens; CorpusLength-1 transitions.
	CorpusLength int

	// PL[w] is the probability that w is the left element of a transition.
	PL []float64

	// PR[w] is the probability that w is the right element of a transition.
	PR []float64

	// Occurrences maps bigrams to their count. Only nonzero counts are present.
	Occurrences map[Bigram]int

	// Words maps word ids to their surface form.
	Words []string

	// WordCounts is the token count of every word id.
	WordCounts []int
}

// Transitions returns the number of bigram transitions, CorpusLength-1.
func (c *Corpus) Transitions() int {
	return c.CorpusLength - 1
}

// Occurrence returns the count of bigram (i, j), 0 when absent.
func (c *Corpus) Occurrence(i, j int) int {
	return c.Occurrences[Bigram{i, j}]
}

// Word returns the surface form of id, and false when id is out of range or
// unnamed.
func (c *Corpus) Word(id int) (string, bool) {
	if id < 0 || id >= c.VocabularySize || id >= len(c.Words) {
		return "", false
	}
	return c.Words[id], true
}

// Validate checks the structural invariants the engines rely on: marginal
// vectors sized to the vocabulary, bigram ids in range, positive counts and at
// least one transition.
func (c *Corpus) Validate() error {
	if c.VocabularySize < 1 {
		return fmt.Errorf("wordclass: corpus vocabulary is empty: %w", ErrInvalidParameter)
	}
	if c.CorpusLength < 2 {
		return fmt.Errorf("wordclass: corpus length must be >= 2, got %d: %w", c.CorpusLength, ErrInvalidParameter)
	}
	if len(c.PL) != c.VocabularySize || len(c.PR) != c.VocabularySize {
		return fmt.Errorf("wordclass: marginals have lengths %d/%d, want %d: %w",
			len(c.PL), len(c.PR), c.VocabularySize, ErrInvalidParameter)
	}
	for b, n := range c.Occurrences {
		if b.Left < 0 || b.Left >= c.VocabularySize || b.Right < 0 || b.Right >= c.VocabularySize {
			return fmt.Errorf("wordclass: bigram (%d,%d) outside vocabulary of %d: %w",
				b.Left, b.Right, c.VocabularySize, ErrInvalidParameter)
		}
		if n <= 0 {
			return fmt.Errorf("wordclass: bigram (%d,%d) has count %d: %w", b.Left, b.Right, n, ErrInvalidParameter)
		}
	}
	return nil
}

// MarginalMass returns sum(PL) and sum(PR). Both are 1 up to rounding for a
// corpus built from a single token stream.
func (c *Corpus) MarginalMass() (left, right float64) {
	for w := 0; w < c.VocabularySize; w++ {
		left += c.PL[w]
		right += c.PR[w]
	}
	return left, right
}

// Neighbor is a word adjacent to another word together with the bigram count.
type Neighbor struct {
	Word  int
	Count int
}

// Adjacency lists, for every word, the words seen immediately before it
// (Left) and immediately after it (Right), sorted by word id.
type Adjacency struct {
	Left  [][]Neighbor
	Right [][]Neighbor
}

// NewAdjacency derives the adjacency index of c from its bigram table.
func NewAdjacency(c *Corpus) Adjacency {
	adj := Adjacency{
		Left:  make([][]Neighbor, c.VocabularySize),
		Right: make([][]Neighbor, c.VocabularySize),
	}
	for b, n := range c.Occurrences {
		adj.Left[b.Right] = append(adj.Left[b.Right], Neighbor{Word: b.Left, Count: n})
		adj.Right[b.Left] = append(adj.Right[b.Left], Neighbor{Word: b.Right, Count: n})
	}
	byWord := func(list []Neighbor) {
		sort.Slice(list, func(i, j int) bool { return list[i].Word < list[j].Word })
	}
	for w := 0; w < c.VocabularySize; w++ {
		byWord(adj.Left[w])
		byWord(adj.Right[w])
	}
	return adj
}

// ClusterAMI computes the AMI of a flat assignment directly from the bigram
// table in O(transitions + numClusters²). It does not depend on any engine
// state and serves as the reference value for the incremental bookkeeping.
func ClusterAMI(c *Corpus, assignments []int, numClusters int) float64 {
	t := float64(c.Transitions())
	plC := make([]float64, numClusters)
	prC := make([]float64, numClusters)
	for w := 0; w < c.VocabularySize; w++ {
		plC[assignments[w]] += c.PL[w]
		prC[assignments[w]] += c.PR[w]
	}
	counts := make([]int, numClusters*numClusters)
	for b, n := range c.Occurrences {
		counts[assignments[b.Left]*numClusters+assignments[b.Right]] += n
	}
	ami := 0.0
	for a := 0; a < numClusters; a++ {
		for b := 0; b < numClusters; b++ {
			ami += MI(float64(counts[a*numClusters+b])/t, plC[a], prC[b])
		}
	}
	return ami
}
