package corpusio

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/TrevorS/wordclass"
	"github.com/klauspost/compress/zstd"
)

// Save writes c to w as a zstd compressed gob stream.
func Save(w io.Writer, c *wordclass.Corpus) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("corpusio: create zstd writer: %w", err)
	}
	if err := gob.NewEncoder(enc).Encode(c); err != nil {
		enc.Close()
		return fmt.Errorf("corpusio: encode corpus: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("corpusio: flush corpus: %w", err)
	}
	return nil
}

// Load reads a corpus written by Save and validates it.
func Load(r io.Reader) (*wordclass.Corpus, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("corpusio: create zstd reader: %w", err)
	}
	defer dec.Close()

	var c wordclass.Corpus
	if err := gob.NewDecoder(dec).Decode(&c); err != nil {
		return nil, fmt.Errorf("corpusio: decode corpus: %w", err)
	}
	if c.Occurrences == nil {
		c.Occurrences = make(map[wordclass.Bigram]int)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveFile writes c to the file at path, replacing it.
func SaveFile(path string, c *wordclass.Corpus) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("corpusio: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("corpusio: %w", cerr)
		}
	}()
	return Save(f, c)
}

// LoadFile reads a corpus written by SaveFile.
func LoadFile(path string) (*wordclass.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpusio: %w", err)
	}
	defer f.Close()
	return Load(f)
}
