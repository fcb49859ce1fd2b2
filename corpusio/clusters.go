package corpusio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/TrevorS/wordclass"
	"go.uber.org/zap"
)

const clusterDelimiter = ", "

func checkAssignments(c *wordclass.Corpus, assignments []int) (int, error) {
	if len(assignments) != c.VocabularySize {
		return 0, fmt.Errorf("corpusio: %d assignments for %d words: %w",
			len(assignments), c.VocabularySize, wordclass.ErrInvalidParameter)
	}
	if len(assignments) == 0 {
		return 0, nil
	}
	lo, hi := slices.Min(assignments), slices.Max(assignments)
	if lo < 0 {
		return 0, fmt.Errorf("corpusio: negative cluster id %d: %w", lo, wordclass.ErrInvalidParameter)
	}
	return hi + 1, nil
}

// ClusterFrequency returns the summed token count of every cluster. The number
// of clusters is the largest id in assignments plus one.
func ClusterFrequency(c *wordclass.Corpus, assignments []int) ([]int, error) {
	if err := checkCounts(c); err != nil {
		return nil, err
	}
	k, err := checkAssignments(c, assignments)
	if err != nil {
		return nil, err
	}
	freq := make([]int, k)
	for w, cl := range assignments {
		freq[cl] += c.WordCounts[w]
	}
	return freq, nil
}

// WriteClusters writes one line per non-empty cluster, most frequent cluster
// first. Within a line words are ordered by decreasing frequency and each is
// followed by ", ".
func WriteClusters(w io.Writer, c *wordclass.Corpus, assignments []int) error {
	freq, err := ClusterFrequency(c, assignments)
	if err != nil {
		return err
	}
	members := make([][]int, len(freq))
	for word, cl := range assignments {
		members[cl] = append(members[cl], word)
	}
	order := make([]int, len(freq))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })

	bw := bufio.NewWriter(w)
	for _, cl := range order {
		words := members[cl]
		if len(words) == 0 {
			continue
		}
		sort.SliceStable(words, func(i, j int) bool { return c.WordCounts[words[i]] > c.WordCounts[words[j]] })
		for _, id := range words {
			word, ok := c.Word(id)
			if !ok {
				continue
			}
			bw.WriteString(word)
			bw.WriteString(clusterDelimiter)
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("corpusio: write clusters: %w", err)
	}
	return nil
}

// ReadClusters reads a cluster file written by WriteClusters. The line number
// is the cluster id. Words not found in c are logged and skipped; words of c
// missing from the file stay in cluster 0.
func ReadClusters(r io.Reader, c *wordclass.Corpus, log *zap.Logger) (assignments []int, numClusters int, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(c.Words) < c.VocabularySize {
		return nil, 0, fmt.Errorf("corpusio: corpus has no word strings: %w", wordclass.ErrInvalidParameter)
	}
	ids := make(map[string]int, c.VocabularySize)
	for id := 0; id < c.VocabularySize; id++ {
		ids[c.Words[id]] = id
	}

	assignments = make([]int, c.VocabularySize)
	seen := roaring.New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		for _, word := range strings.Split(sc.Text(), clusterDelimiter) {
			if word == "" {
				continue
			}
			id, ok := ids[word]
			if !ok {
				log.Warn("word not in corpus", zap.String("word", word), zap.Int("line", numClusters))
				continue
			}
			assignments[id] = numClusters
			seen.Add(uint32(id))
		}
		numClusters++
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("corpusio: read clusters: %w", err)
	}
	if missing := c.VocabularySize - int(seen.GetCardinality()); missing > 0 {
		log.Warn("words missing from cluster file", zap.Int("missing", missing))
	}
	return assignments, numClusters, nil
}

// ClusterCorpus collapses c onto the clusters of assignments: cluster ids
// become word ids, bigram counts, marginals and token counts are summed per
// cluster, and the corpus length is kept. A cluster is named after its lowest
// word id, which is its most frequent word once ReorderByFrequency has run.
func ClusterCorpus(c *wordclass.Corpus, assignments []int) (*wordclass.Corpus, error) {
	if err := checkCounts(c); err != nil {
		return nil, err
	}
	k, err := checkAssignments(c, assignments)
	if err != nil {
		return nil, err
	}
	if len(c.PL) != c.VocabularySize || len(c.PR) != c.VocabularySize {
		return nil, fmt.Errorf("corpusio: marginals do not match vocabulary of %d: %w",
			c.VocabularySize, wordclass.ErrInvalidParameter)
	}

	out := &wordclass.Corpus{
		VocabularySize: k,
		CorpusLength:   c.CorpusLength,
		PL:             make([]float64, k),
		PR:             make([]float64, k),
		Occurrences:    make(map[wordclass.Bigram]int, len(c.Occurrences)),
		Words:          make([]string, k),
		WordCounts:     make([]int, k),
	}
	named := make([]bool, k)
	for w, cl := range assignments {
		out.PL[cl] += c.PL[w]
		out.PR[cl] += c.PR[w]
		out.WordCounts[cl] += c.WordCounts[w]
		if !named[cl] {
			word, err := wordOf(c, w)
			if err != nil {
				return nil, err
			}
			out.Words[cl] = word
			named[cl] = true
		}
	}
	for cl, ok := range named {
		if !ok {
			out.Words[cl] = "<empty " + strconv.Itoa(cl) + ">"
		}
	}
	for b, n := range c.Occurrences {
		out.Occurrences[wordclass.Bigram{Left: assignments[b.Left], Right: assignments[b.Right]}] += n
	}
	return out, nil
}

// ClusterInteraction is the cluster to cluster transition table of a flat
// clustering.
type ClusterInteraction struct {
	NumClusters      int     `json:"num_clusters"`
	CorpusLength     int     `json:"corpus_length"`
	VocabularySize   int     `json:"vocabulary_size"`
	ClusterToCluster [][]int `json:"cluster2cluster"`
}

// NewClusterInteraction counts the transitions between every ordered pair of
// clusters.
func NewClusterInteraction(c *wordclass.Corpus, assignments []int) (*ClusterInteraction, error) {
	k, err := checkAssignments(c, assignments)
	if err != nil {
		return nil, err
	}
	table := make([][]int, k)
	for i := range table {
		table[i] = make([]int, k)
	}
	for b, n := range c.Occurrences {
		table[assignments[b.Left]][assignments[b.Right]] += n
	}
	return &ClusterInteraction{
		NumClusters:      k,
		CorpusLength:     c.CorpusLength,
		VocabularySize:   c.VocabularySize,
		ClusterToCluster: table,
	}, nil
}

// WriteClusterInteraction writes the interaction table as indented JSON.
func WriteClusterInteraction(w io.Writer, c *wordclass.Corpus, assignments []int) error {
	ci, err := NewClusterInteraction(c, assignments)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(ci); err != nil {
		return fmt.Errorf("corpusio: write cluster interaction: %w", err)
	}
	return nil
}
