package wordclass

import "sort"

// Linkage converts the merge tree into a dendrogram in scipy linkage format.
// Rows are [left, right, amiLoss, mergedSize] in merge order. Words keep their
// ids 0..n-1; the cluster created by row k gets id n+k. Any tool that reads
// scipy linkage matrices can plot or cut the hierarchy.
func (t *MergeTree) Linkage() [][4]float64 {
	merges := t.Merges()
	if len(merges) == 0 {
		return nil
	}
	sort.Slice(merges, func(i, j int) bool {
		return merges[i].MergeID < merges[j].MergeID
	})

	uf := newUnionFind(t.Leaves())
	result := make([][4]float64, 0, len(merges))
	for _, m := range merges {
		a := uf.find(m.LeftWord)
		b := uf.find(m.RightWord)
		_, size := uf.relabel(a, b)
		result = append(result, [4]float64{float64(a), float64(b), m.AMILoss, float64(size)})
	}
	return result
}
