package wordclass

// unionFind is a disjoint-set forest over the words of a merge tree that
// relabels every union with a fresh cluster id, n for the first merge, n+1
// for the second, and so on. It holds 2*n - 1 elements: the n words and the
// n - 1 merged clusters.
type unionFind struct {
	parent []int
	size   []int
	// nextLabel is the id of the next merged cluster.
	nextLabel int
}

func newUnionFind(n int) *unionFind {
	total := max(2*n-1, 1)
	parent := make([]int, total)
	size := make([]int, total)
	for i := range parent {
		parent[i] = -1 // root
	}
	for i := 0; i < n; i++ {
		size[i] = 1
	}
	return &unionFind{
		parent:    parent,
		size:      size,
		nextLabel: n,
	}
}

// find returns the current cluster id of x, with path compression.
func (uf *unionFind) find(x int) int {
	root := x
	for uf.parent[root] != -1 {
		root = uf.parent[root]
	}
	for uf.parent[x] != -1 {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// relabel merges the roots a and b under the next cluster id and returns that
// id together with the merged size.
func (uf *unionFind) relabel(a, b int) (label, size int) {
	label = uf.nextLabel
	size = uf.size[a] + uf.size[b]
	uf.size[label] = size
	uf.parent[a] = label
	uf.parent[b] = label
	uf.nextLabel++
	return label, size
}
