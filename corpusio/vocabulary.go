package corpusio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TrevorS/wordclass"
)

// VocabularyEntry is one line of a vocabulary file.
type VocabularyEntry struct {
	Word  string
	Count int
}

// WriteVocabulary writes "word count" for every word of c in id order.
func WriteVocabulary(w io.Writer, c *wordclass.Corpus) error {
	if err := checkCounts(c); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for id := 0; id < c.VocabularySize; id++ {
		word, ok := c.Word(id)
		if !ok {
			continue
		}
		fmt.Fprintf(bw, "%s %d\n", word, c.WordCounts[id])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("corpusio: write vocabulary: %w", err)
	}
	return nil
}

// ReadVocabulary reads a file written by WriteVocabulary. Blank lines are
// skipped.
func ReadVocabulary(r io.Reader) ([]VocabularyEntry, error) {
	var entries []VocabularyEntry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("corpusio: vocabulary line %d: want \"word count\", got %q", line, sc.Text())
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("corpusio: vocabulary line %d: %w", line, err)
		}
		entries = append(entries, VocabularyEntry{Word: fields[0], Count: count})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpusio: read vocabulary: %w", err)
	}
	return entries, nil
}
