package wordclass

import (
	"math"
	"testing"
)

func TestLinkage_SampleTree(t *testing.T) {
	tree := sampleTree(t)
	tree.Root.AMILoss = 4
	// Merge order: (3,4) (5,n0) (2,n1) (1,n2) (0,n3).
	want := [][4]float64{
		{3, 4, 0, 2},
		{5, 6, 0, 3},
		{2, 7, 0, 4},
		{1, 8, 0, 5},
		{0, 9, 4, 6},
	}
	got := tree.Linkage()
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i, row := range got {
		for j := 0; j < 4; j++ {
			if math.Abs(row[j]-want[i][j]) > 1e-10 {
				t.Errorf("row[%d][%d] = %v, want %v", i, j, row[j], want[i][j])
			}
		}
	}
}

func TestLinkage_FromBrown(t *testing.T) {
	b, err := NewBrown(abcdCorpus(), testConfig(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Cluster(2, 4); err != nil {
		t.Fatal(err)
	}
	tree, _ := b.MergeTree()

	// merge 0 joins words 3 and 1, merge 1 words 2 and 0, the root both pairs.
	want := [][4]float64{
		{3, 1, 0.4, 2},
		{2, 0, 0.7019550008653873, 2},
		{5, 4, 0.4199730940219747, 4},
	}
	got := tree.Linkage()
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	for i, row := range got {
		for j := 0; j < 4; j++ {
			if math.Abs(row[j]-want[i][j]) > 1e-9 {
				t.Errorf("row[%d][%d] = %v, want %v", i, j, row[j], want[i][j])
			}
		}
	}
}
