package wordclass

import "testing"

// --- Exchange ---

func benchExchange(b *testing.B, vocabulary, clusters, workers int) {
	b.Helper()
	c := randomCorpus(42, vocabulary, vocabulary*50)
	cfg := testConfig(workers)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e, err := NewExchange(c, cfg)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := e.Cluster(clusters, 3, DefaultMinAMIChange); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExchange_500x50(b *testing.B)           { benchExchange(b, 500, 50, 1) }
func BenchmarkExchange_2000x100(b *testing.B)         { benchExchange(b, 2000, 100, 1) }
func BenchmarkExchange_2000x100Parallel(b *testing.B) { benchExchange(b, 2000, 100, 0) }

// --- Brown ---

func benchBrown(b *testing.B, vocabulary, clusters, window, workers int) {
	b.Helper()
	c := randomCorpus(42, vocabulary, vocabulary*50)
	cfg := testConfig(workers)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		br, err := NewBrown(c, cfg)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := br.Cluster(clusters, window); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBrown_300x20(b *testing.B)          { benchBrown(b, 300, 20, 40, 1) }
func BenchmarkBrown_1000x50(b *testing.B)         { benchBrown(b, 1000, 50, 80, 1) }
func BenchmarkBrown_1000x50Parallel(b *testing.B) { benchBrown(b, 1000, 50, 80, 0) }

// --- Tree ---

func BenchmarkBitAddresses_1000(b *testing.B) {
	c := randomCorpus(42, 1000, 50000)
	br, err := NewBrown(c, testConfig(0))
	if err != nil {
		b.Fatal(err)
	}
	if _, err := br.Cluster(50, 80); err != nil {
		b.Fatal(err)
	}
	tree, _ := br.MergeTree()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.BitAddresses()
	}
}
