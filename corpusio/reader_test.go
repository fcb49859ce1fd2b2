package corpusio

import (
	"errors"
	"strings"
	"testing"

	"github.com/TrevorS/wordclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readString(t *testing.T, text string) *wordclass.Corpus {
	t.Helper()
	c, err := ReadTokens(strings.NewReader(text))
	require.NoError(t, err)
	return c
}

func TestReadTokens(t *testing.T) {
	c := readString(t, "a a b\n c\td   c")

	assert.Equal(t, 4, c.VocabularySize)
	assert.Equal(t, 6, c.CorpusLength)
	assert.Equal(t, []string{"a", "b", "c", "d"}, c.Words)
	assert.Equal(t, []int{2, 1, 2, 1}, c.WordCounts)
	assert.Equal(t, map[wordclass.Bigram]int{
		{Left: 0, Right: 0}: 1,
		{Left: 0, Right: 1}: 1,
		{Left: 1, Right: 2}: 1,
		{Left: 2, Right: 3}: 1,
		{Left: 3, Right: 2}: 1,
	}, c.Occurrences)
	assert.InDeltaSlice(t, []float64{0.4, 0.2, 0.2, 0.2}, c.PL, 1e-12)
	assert.InDeltaSlice(t, []float64{0.2, 0.2, 0.4, 0.2}, c.PR, 1e-12)
	require.NoError(t, c.Validate())
}

func TestReadTokens_TooShort(t *testing.T) {
	for _, text := range []string{"", "   \n", "alone"} {
		_, err := ReadTokens(strings.NewReader(text))
		assert.True(t, errors.Is(err, wordclass.ErrInvalidParameter), "input %q: %v", text, err)
	}
}

func TestReadSkipGrams(t *testing.T) {
	c, err := ReadSkipGrams(strings.NewReader("a b c"), 2)
	require.NoError(t, err)

	assert.Equal(t, 3, c.VocabularySize)
	assert.Equal(t, 7, c.CorpusLength)
	assert.Len(t, c.Occurrences, 6)
	for b, n := range c.Occurrences {
		assert.NotEqual(t, b.Left, b.Right)
		assert.Equal(t, 1, n)
	}
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, c.PL, 1e-12)
	assert.InDeltaSlice(t, c.PL, c.PR, 1e-12)
}

func TestReadSkipGrams_WidthOne(t *testing.T) {
	c, err := ReadSkipGrams(strings.NewReader("a b a"), 1)
	require.NoError(t, err)

	assert.Equal(t, map[wordclass.Bigram]int{
		{Left: 0, Right: 1}: 2,
		{Left: 1, Right: 0}: 2,
	}, c.Occurrences)
	assert.Equal(t, 5, c.CorpusLength)
}

func TestReadSkipGrams_InvalidWidth(t *testing.T) {
	_, err := ReadSkipGrams(strings.NewReader("a b"), 0)
	assert.ErrorIs(t, err, wordclass.ErrInvalidParameter)
}

func TestReadSkipGramsWithVocabulary(t *testing.T) {
	vocab := []VocabularyEntry{{"a", 1}, {"b", 1}}

	t.Run("unknown token keeps its window slot", func(t *testing.T) {
		c, err := ReadSkipGramsWithVocabulary(strings.NewReader("a x b"), vocab, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, c.Words)
		assert.Equal(t, []int{1, 1}, c.WordCounts)
		assert.Equal(t, map[wordclass.Bigram]int{
			{Left: 0, Right: 1}: 1,
			{Left: 1, Right: 0}: 1,
		}, c.Occurrences)
		assert.Equal(t, 3, c.CorpusLength)
		assert.InDeltaSlice(t, []float64{0.5, 0.5}, c.PL, 1e-12)
	})

	t.Run("unknown token pushes neighbors out of the window", func(t *testing.T) {
		_, err := ReadSkipGramsWithVocabulary(strings.NewReader("a x b"), vocab, 1)
		assert.ErrorIs(t, err, wordclass.ErrInvalidParameter)
	})

	t.Run("empty vocabulary", func(t *testing.T) {
		_, err := ReadSkipGramsWithVocabulary(strings.NewReader("a b"), nil, 2)
		assert.ErrorIs(t, err, wordclass.ErrInvalidParameter)
	})
}
