// Package corpusio builds [wordclass.Corpus] values from text, persists them
// and writes the artifacts of a clustering run: cluster files, Liang-style
// bit-address paths, merge logs, vocabularies and cluster interaction counts.
//
// Words are identified by position in the corpus tables. Readers assign ids in
// first-seen order; use [ReorderByFrequency] before Brown clustering so the
// most frequent words enter the window first.
package corpusio
