// Package wordclass induces word classes from a token corpus by maximizing the
// average mutual information (AMI) between the cluster labels of adjacent
// tokens.
//
// Two engines share the same corpus statistics and MI primitives:
//
//   - Exchange moves one word at a time to the cluster that raises AMI the
//     most, until a pass makes no moves and the AMI gain drops under a
//     threshold. StochasticExchange occasionally moves a word to a random
//     cluster instead.
//   - Brown performs bottom-up agglomerative clustering over a bounded window
//     of active clusters, producing a flat clustering with K clusters and a
//     binary merge tree over the whole vocabulary.
//
// Basic usage:
//
//	cfg := wordclass.DefaultConfig()
//	ex, err := wordclass.NewExchange(corpus, cfg)
//	labels, err := ex.Cluster(500, 20, wordclass.DefaultMinAMIChange)
//	// labels[w] is the cluster of word w, canonically ordered by lowest word id
//
// Brown clustering:
//
//	b, err := wordclass.NewBrown(corpus, cfg)
//	labels, err := b.Cluster(500, 600)
//	tree, err := b.MergeTree()
//	for _, wa := range tree.BitAddresses() {
//		fmt.Println(wa.Address, corpus.Words[wa.Word])
//	}
//
// Word ids are expected to be ordered by decreasing frequency (see
// corpusio.ReorderByFrequency): Brown admits words into its window in id
// order and Exchange gives singleton clusters to the lowest ids by default.
package wordclass
