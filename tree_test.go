package wordclass

import (
	"errors"
	"slices"
	"testing"
)

func mustInner(t *testing.T, left, right *Node) *Node {
	t.Helper()
	n, err := newInner(left, right)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// sampleTree builds
//
//	root
//	├── 0 (final)
//	└── n3
//	    ├── 1 (final)
//	    └── n2
//	        ├── 2
//	        └── n1 (final)
//	            ├── 5
//	            └── n0
//	                ├── 3
//	                └── 4
func sampleTree(t *testing.T) *MergeTree {
	leaf0 := newLeaf(0)
	leaf0.Final = true
	leaf1 := newLeaf(1)
	leaf1.Final = true

	n0 := mustInner(t, newLeaf(3), newLeaf(4))
	n0.MergeID = 0
	n1 := mustInner(t, newLeaf(5), n0)
	n1.MergeID = 1
	n1.Final = true
	n2 := mustInner(t, newLeaf(2), n1)
	n2.MergeID = 2
	n3 := mustInner(t, leaf1, n2)
	n3.MergeID = 3
	root := mustInner(t, leaf0, n3)
	root.MergeID = 4
	return &MergeTree{Root: root}
}

func TestMergeTree_BitAddresses(t *testing.T) {
	got := sampleTree(t).BitAddresses()
	want := []WordAddress{
		{"0", 0},
		{"10", 1},
		{"110", 2},
		{"111", 5},
		{"111", 3},
		{"111", 4},
	}
	if !slices.Equal(got, want) {
		t.Errorf("BitAddresses = %v, want %v", got, want)
	}
}

func TestMergeTree_Merges(t *testing.T) {
	got := sampleTree(t).Merges()
	want := [][3]int{
		{0, 1, 4},
		{1, 2, 3},
		{2, 5, 2},
		{5, 3, 1},
		{3, 4, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d merges, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].LeftWord != w[0] || got[i].RightWord != w[1] || got[i].MergeID != w[2] {
			t.Errorf("merge %d = %+v, want %v", i, got[i], w)
		}
	}
}

func TestMergeTree_Counts(t *testing.T) {
	tree := sampleTree(t)
	if got := tree.Leaves(); got != 6 {
		t.Errorf("Leaves = %d, want 6", got)
	}
	if got := tree.InnerNodes(); got != 5 {
		t.Errorf("InnerNodes = %d, want 5", got)
	}
	if got := tree.Words(); !slices.Equal(got, []int{0, 1, 2, 5, 3, 4}) {
		t.Errorf("Words = %v", got)
	}
	if got := tree.Root.Right.Right.Members(); !slices.Equal(got, []int{2, 5, 3, 4}) {
		t.Errorf("Members = %v", got)
	}
	if got := tree.Root.Right.WordLabel(); got != 1 {
		t.Errorf("WordLabel = %d, want 1", got)
	}
	final := tree.FinalClusters()
	if len(final) != 3 || !slices.Equal(final[2], []int{5, 3, 4}) {
		t.Errorf("FinalClusters = %v", final)
	}
}

func TestNewInner_NilChild(t *testing.T) {
	if _, err := newInner(newLeaf(0), nil); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("nil right child: got %v", err)
	}
	if _, err := newInner(nil, newLeaf(0)); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("nil left child: got %v", err)
	}
}

func TestClustering_Contracts(t *testing.T) {
	cl := newClustering(3, 5)

	if err := cl.assignLeaf(newLeaf(3), 1); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("assigning into an occupied slot: got %v", err)
	}
	if err := cl.moveLast(0); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("moving into a non-empty slot: got %v", err)
	}
	if err := cl.merge(mergeCandidate{to: 0, from: 5}, 0); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("merging outside the slots: got %v", err)
	}

	if err := cl.merge(mergeCandidate{to: 0, from: 1}, 0); err != nil {
		t.Fatal(err)
	}
	if err := cl.assignLeaf(nil, 1); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("assigning a nil leaf: got %v", err)
	}
	if err := cl.moveLast(1); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(cl.wordsToClusters[:3], []int{0, 0, 1}) {
		t.Errorf("wordsToClusters = %v, want [0 0 1 ...]", cl.wordsToClusters)
	}
	if cl.trees[1].Word != 2 || cl.maxSlot != 1 {
		t.Errorf("slot 1 holds %v, maxSlot %d", cl.trees[1], cl.maxSlot)
	}
	if _, err := cl.attachRoot(mergeCandidate{}, 1); err != nil {
		t.Fatal(err)
	}
}
