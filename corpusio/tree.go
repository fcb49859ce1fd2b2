package corpusio

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/TrevorS/wordclass"
)

func wordOf(c *wordclass.Corpus, id int) (string, error) {
	word, ok := c.Word(id)
	if !ok {
		return "", fmt.Errorf("corpusio: word %d has no string: %w", id, wordclass.ErrInvalidParameter)
	}
	return word, nil
}

// WritePaths writes the bit address of every word in the Liang paths format,
// one "address\tword\tcount" line per leaf, left to right.
func WritePaths(w io.Writer, c *wordclass.Corpus, tree *wordclass.MergeTree) error {
	if err := checkCounts(c); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, wa := range tree.BitAddresses() {
		word, err := wordOf(c, wa.Word)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s\t%s\t%d\n", wa.Address, word, c.WordCounts[wa.Word])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("corpusio: write paths: %w", err)
	}
	return nil
}

// WriteMerges writes the merge log in pre-order, one
// "leftWord\trightWord\tmergeID\tamiLoss\tamiAfterLoss" line per inner node.
// Subtrees are named by their leftmost word.
func WriteMerges(w io.Writer, c *wordclass.Corpus, tree *wordclass.MergeTree) error {
	bw := bufio.NewWriter(w)
	for _, m := range tree.Merges() {
		left, err := wordOf(c, m.LeftWord)
		if err != nil {
			return err
		}
		right, err := wordOf(c, m.RightWord)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s\t%s\t%d\t%s\t%s\n", left, right, m.MergeID,
			strconv.FormatFloat(m.AMILoss, 'g', 10, 64),
			strconv.FormatFloat(m.AMIAfterLoss, 'g', 10, 64))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("corpusio: write merges: %w", err)
	}
	return nil
}

// WriteClusterPaths writes the Liang paths of a tree built over
// ClusterCorpus(c, assignments). Every word of c gets the address of its
// cluster; clusters appear left to right and their words by decreasing count.
func WriteClusterPaths(w io.Writer, c *wordclass.Corpus, assignments []int, tree *wordclass.MergeTree) error {
	if err := checkCounts(c); err != nil {
		return err
	}
	k, err := checkAssignments(c, assignments)
	if err != nil {
		return err
	}
	members := make([][]int, k)
	for word, cl := range assignments {
		members[cl] = append(members[cl], word)
	}
	bw := bufio.NewWriter(w)
	for _, ca := range tree.BitAddresses() {
		if ca.Word < 0 || ca.Word >= k {
			return fmt.Errorf("corpusio: tree leaf %d outside %d clusters: %w", ca.Word, k, wordclass.ErrInvalidParameter)
		}
		words := members[ca.Word]
		sort.SliceStable(words, func(i, j int) bool { return c.WordCounts[words[i]] > c.WordCounts[words[j]] })
		for _, id := range words {
			word, err := wordOf(c, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(bw, "%s\t%s\t%d\n", ca.Address, word, c.WordCounts[id])
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("corpusio: write cluster paths: %w", err)
	}
	return nil
}
