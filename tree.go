package wordclass

import "fmt"

// Node is a vertex of the Brown merge tree. A leaf holds a single word; an
// inner node owns the two subtrees it merged. Each node has exactly one
// parent, and the root has none.
type Node struct {
	// Word is the word id of a leaf, -1 for inner nodes.
	Word int

	Left, Right *Node

	// AMILoss is the drop in AMI caused by the merge, AMIAfterLoss the AMI
	// of the window right after it.
	AMILoss      float64
	AMIAfterLoss float64

	// MergeID is the position of the merge in the merge sequence.
	MergeID int

	// Final marks the clusters of the flat result. Bit addresses are not
	// extended below a final node.
	Final bool
}

func newLeaf(word int) *Node {
	return &Node{Word: word, MergeID: -1}
}

func newInner(left, right *Node) (*Node, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("wordclass: merge child is nil (left nil: %t, right nil: %t): %w",
			left == nil, right == nil, ErrInvariantViolation)
	}
	return &Node{Word: -1, Left: left, Right: right}, nil
}

// IsLeaf reports whether n is a single-word leaf.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// WordLabel returns the word id of the leftmost leaf under n. It names the
// cluster formed by n.
func (n *Node) WordLabel() int {
	for !n.IsLeaf() {
		n = n.Left
	}
	return n.Word
}

// Members returns the words under n, left to right.
func (n *Node) Members() []int {
	var words []int
	walk(n, func(v *Node) {
		if v.IsLeaf() {
			words = append(words, v.Word)
		}
	})
	return words
}

// walk visits the subtree of n in pre-order: node, left subtree, right
// subtree. It uses an explicit stack so degenerate trees do not deepen the
// goroutine stack.
func walk(n *Node, visit func(*Node)) {
	stack := []*Node{n}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(v)
		if !v.IsLeaf() {
			stack = append(stack, v.Right, v.Left)
		}
	}
}

// MergeTree is the complete binary merge tree produced by Brown clustering.
type MergeTree struct {
	Root *Node
}

// WordAddress is the bit address of a word in the merge tree.
type WordAddress struct {
	Address string
	Word    int
}

// Merge is one entry of the merge log.
type Merge struct {
	// LeftWord and RightWord are the word labels of the merged subtrees.
	LeftWord, RightWord int
	MergeID             int
	AMILoss             float64
	AMIAfterLoss        float64
}

// BitAddresses returns the address of every leaf, left to right. The root's
// children are "0" and "1"; every further inner node appends 0 for its left
// and 1 for its right child until a final node is reached, whose leaves all
// share the final node's address.
func (t *MergeTree) BitAddresses() []WordAddress {
	type frame struct {
		node   *Node
		addr   string
		extend bool
	}
	var result []WordAddress
	stack := []frame{{t.Root.Right, "1", true}, {t.Root.Left, "0", true}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node.IsLeaf() {
			result = append(result, WordAddress{Address: f.addr, Word: f.node.Word})
			continue
		}
		if f.extend && !f.node.Final {
			stack = append(stack,
				frame{f.node.Right, f.addr + "1", true},
				frame{f.node.Left, f.addr + "0", true})
		} else {
			stack = append(stack,
				frame{f.node.Right, f.addr, false},
				frame{f.node.Left, f.addr, false})
		}
	}
	return result
}

// Merges returns the merge log in pre-order, starting with the root.
func (t *MergeTree) Merges() []Merge {
	var merges []Merge
	walk(t.Root, func(n *Node) {
		if n.IsLeaf() {
			return
		}
		merges = append(merges, Merge{
			LeftWord:     n.Left.WordLabel(),
			RightWord:    n.Right.WordLabel(),
			MergeID:      n.MergeID,
			AMILoss:      n.AMILoss,
			AMIAfterLoss: n.AMIAfterLoss,
		})
	})
	return merges
}

// Words returns every word id in the tree, left to right.
func (t *MergeTree) Words() []int {
	return t.Root.Members()
}

// Leaves returns the number of leaves.
func (t *MergeTree) Leaves() int {
	count := 0
	walk(t.Root, func(n *Node) {
		if n.IsLeaf() {
			count++
		}
	})
	return count
}

// InnerNodes returns the number of inner nodes, the root included.
func (t *MergeTree) InnerNodes() int {
	count := 0
	walk(t.Root, func(n *Node) {
		if !n.IsLeaf() {
			count++
		}
	})
	return count
}

// FinalClusters returns the members of every final node in pre-order.
func (t *MergeTree) FinalClusters() [][]int {
	var clusters [][]int
	stack := []*Node{t.Root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v.Final {
			clusters = append(clusters, v.Members())
			continue
		}
		if !v.IsLeaf() {
			stack = append(stack, v.Right, v.Left)
		}
	}
	return clusters
}
