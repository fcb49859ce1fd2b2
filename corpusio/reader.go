package corpusio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/TrevorS/wordclass"
)

// counter accumulates raw counts while tokens are read.
type counter struct {
	ids         map[string]int
	words       []string
	wordCounts  []int
	left, right []int
	occurrences map[wordclass.Bigram]int
	transitions int
}

func newCounter() *counter {
	return &counter{
		ids:         make(map[string]int),
		occurrences: make(map[wordclass.Bigram]int),
	}
}

func (c *counter) id(word string) int {
	if id, ok := c.ids[word]; ok {
		c.wordCounts[id]++
		return id
	}
	id := len(c.words)
	c.ids[word] = id
	c.words = append(c.words, word)
	c.wordCounts = append(c.wordCounts, 1)
	c.left = append(c.left, 0)
	c.right = append(c.right, 0)
	return id
}

func (c *counter) pair(a, b int) {
	c.occurrences[wordclass.Bigram{Left: a, Right: b}]++
	c.left[a]++
	c.right[b]++
	c.transitions++
}

// corpus normalizes the marginals by the number of transitions.
func (c *counter) corpus() (*wordclass.Corpus, error) {
	if c.transitions == 0 {
		return nil, fmt.Errorf("corpusio: input has no transitions: %w", wordclass.ErrInvalidParameter)
	}
	v := len(c.words)
	out := &wordclass.Corpus{
		VocabularySize: v,
		CorpusLength:   c.transitions + 1,
		PL:             make([]float64, v),
		PR:             make([]float64, v),
		Occurrences:    c.occurrences,
		Words:          c.words,
		WordCounts:     c.wordCounts,
	}
	t := float64(c.transitions)
	for w := 0; w < v; w++ {
		out.PL[w] = float64(c.left[w]) / t
		out.PR[w] = float64(c.right[w]) / t
	}
	return out, nil
}

func scanTokens(r io.Reader, fn func(token string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		fn(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("corpusio: read tokens: %w", err)
	}
	return nil
}

// ReadTokens builds a corpus from whitespace separated tokens. Every pair of
// consecutive tokens is one transition, so a stream of n tokens yields n-1
// transitions.
func ReadTokens(r io.Reader) (*wordclass.Corpus, error) {
	c := newCounter()
	prev := -1
	err := scanTokens(r, func(token string) {
		id := c.id(token)
		if prev >= 0 {
			c.pair(prev, id)
		}
		prev = id
	})
	if err != nil {
		return nil, err
	}
	return c.corpus()
}

// ReadSkipGrams builds an unordered skip-gram corpus: every token is paired
// with each of the width tokens before it, once in each direction. Each
// directed pair is one transition.
func ReadSkipGrams(r io.Reader, width int) (*wordclass.Corpus, error) {
	return readSkipGrams(r, width, nil)
}

// ReadSkipGramsWithVocabulary is ReadSkipGrams restricted to the words of
// vocab. Tokens outside it still occupy a position in the window but are
// never paired and get no id.
func ReadSkipGramsWithVocabulary(r io.Reader, vocab []VocabularyEntry, width int) (*wordclass.Corpus, error) {
	if len(vocab) == 0 {
		return nil, fmt.Errorf("corpusio: vocabulary is empty: %w", wordclass.ErrInvalidParameter)
	}
	known := make(map[string]struct{}, len(vocab))
	for _, e := range vocab {
		known[e.Word] = struct{}{}
	}
	return readSkipGrams(r, width, func(token string) bool {
		_, ok := known[token]
		return ok
	})
}

// readSkipGrams pairs tokens within width positions. A nil inVocab accepts
// every token.
func readSkipGrams(r io.Reader, width int, inVocab func(string) bool) (*wordclass.Corpus, error) {
	if width < 1 {
		return nil, fmt.Errorf("corpusio: skip-gram width must be >= 1, got %d: %w", width, wordclass.ErrInvalidParameter)
	}
	c := newCounter()
	// history holds the previous window positions, most recent last; -1
	// marks a token outside the vocabulary.
	history := make([]int, 0, width)
	err := scanTokens(r, func(token string) {
		id := -1
		if inVocab == nil || inVocab(token) {
			id = c.id(token)
			for i := len(history) - 1; i >= 0; i-- {
				if prev := history[i]; prev >= 0 {
					c.pair(prev, id)
					c.pair(id, prev)
				}
			}
		}
		if len(history) == width {
			copy(history, history[1:])
			history = history[:width-1]
		}
		history = append(history, id)
	})
	if err != nil {
		return nil, err
	}
	return c.corpus()
}
