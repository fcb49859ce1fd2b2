package wordclass

import (
	"fmt"
	"sort"
)

// SortClusterAssignments renumbers cluster ids so that they increase with the
// lowest word id each cluster contains: the cluster holding word 0 becomes 0,
// the cluster holding the lowest word not in cluster 0 becomes 1, and so on.
// Empty clusters sort last in their original order. The input is not modified.
func SortClusterAssignments(assignments []int, numClusters int) []int {
	n := len(assignments)
	lowest := make([]int, numClusters)
	for c := range lowest {
		lowest[c] = n
	}
	for w, c := range assignments {
		if w < lowest[c] {
			lowest[c] = w
		}
	}

	order := make([]int, numClusters)
	for c := range order {
		order[c] = c
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lowest[order[a]] < lowest[order[b]]
	})

	mapping := make([]int, numClusters)
	for rank, c := range order {
		mapping[c] = rank
	}

	result := make([]int, n)
	for w, c := range assignments {
		result[w] = mapping[c]
	}
	return result
}

// DefaultAssignments puts each of the numClusters-1 lowest word ids into its
// own cluster and every remaining word into the last cluster.
func DefaultAssignments(vocabularySize, numClusters int) []int {
	assignments := make([]int, vocabularySize)
	for w := range assignments {
		if w < numClusters-1 {
			assignments[w] = w
		} else {
			assignments[w] = numClusters - 1
		}
	}
	return assignments
}

// NumClusters returns one more than the largest cluster id in assignments.
func NumClusters(assignments []int) int {
	k := 0
	for _, c := range assignments {
		k = max(k, c+1)
	}
	return k
}

// validateAssignments checks that assignments covers the vocabulary and only
// uses ids in [0, numClusters).
func validateAssignments(assignments []int, vocabularySize, numClusters int) error {
	if len(assignments) != vocabularySize {
		return fmt.Errorf("wordclass: assignment covers %d words, vocabulary has %d: %w",
			len(assignments), vocabularySize, ErrInvalidParameter)
	}
	for w, c := range assignments {
		if c < 0 || c >= numClusters {
			return fmt.Errorf("wordclass: word %d assigned to cluster %d outside [0, %d): %w",
				w, c, numClusters, ErrInvalidParameter)
		}
	}
	return nil
}
