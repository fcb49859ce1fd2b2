package wordclass

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"
)

// Brown is the hierarchical clustering engine. It merges clusters bottom-up
// inside a bounded window, returns the flat clustering at the requested
// number of clusters and keeps merging down to a root to build the merge
// tree.
type Brown struct {
	corpus *Corpus
	adj    Adjacency
	cfg    Config
	log    *zap.Logger

	tree *MergeTree
}

// NewBrown creates a Brown engine over c. The adjacency index is derived
// here; afterwards only the marginals and the index are read.
func NewBrown(c *Corpus, cfg Config) (*Brown, error) {
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Brown{
		corpus: c,
		adj:    NewAdjacency(c),
		cfg:    cfg,
		log:    cfg.Logger.With(zap.String("algorithm", "brown")),
	}, nil
}

// MergeTree returns the tree built by the last successful Cluster call.
func (b *Brown) MergeTree() (*MergeTree, error) {
	if b.tree == nil {
		return nil, ErrNoMergeTree
	}
	return b.tree, nil
}

// Cluster runs Brown clustering with numClusters target clusters and a
// window of windowSize active clusters. Words 0..windowSize-1 start in the
// window; the rest enter in id order, so callers usually number words by
// descending frequency. A window larger than the vocabulary is clamped to
// it.
//
// The returned assignment is the flat clustering at numClusters clusters.
// The merge tree, available from MergeTree afterwards, continues down to a
// single root.
func (b *Brown) Cluster(numClusters, windowSize int) ([]int, error) {
	v := b.corpus.VocabularySize
	if windowSize == 0 || numClusters > windowSize {
		return nil, fmt.Errorf("wordclass: window size %d must be >= number of clusters %d and > 0: %w",
			windowSize, numClusters, ErrInvalidParameter)
	}
	if numClusters <= 1 || numClusters > v {
		return nil, fmt.Errorf("wordclass: number of clusters %d must be in [2, %d]: %w",
			numClusters, v, ErrInvalidParameter)
	}
	windowSize = min(windowSize, v)

	pool := newWorkerPool(b.cfg.Workers)
	defer pool.close()

	cl := newClustering(windowSize, v)
	pending := make([]*Node, 0, v-windowSize)
	for w := windowSize; w < v; w++ {
		pending = append(pending, newLeaf(w))
	}
	win := newWindow(b.corpus, b.adj, windowSize, pool)

	b.log.Info("starting",
		zap.Int("vocabulary", v),
		zap.Int("clusters", numClusters),
		zap.Int("window", windowSize),
		zap.Float64("ami", win.oldI),
	)

	mergeID := 0
	for len(pending) > 0 || win.size > numClusters {
		m := win.bestMerge()
		win.oldI = m.amiAfter
		if err := cl.merge(m, mergeID); err != nil {
			return nil, err
		}
		win.fold(m.to, m.from)

		if len(pending) > 0 {
			leaf := pending[0]
			pending = pending[1:]
			if err := cl.assignLeaf(leaf, m.from); err != nil {
				return nil, err
			}
			win.include(m.to, m.from, leaf.Word, b.corpus, b.adj, cl.wordsToClusters)
		} else {
			if err := cl.moveLast(m.from); err != nil {
				return nil, err
			}
			win.shrink(m.to, m.from)
		}

		b.logMerge("window", m, mergeID, win.size, len(pending))
		mergeID++
	}

	cl.setFinal()
	flat := append([]int(nil), cl.wordsToClusters...)
	b.log.Info("flat clustering ready", zap.Int("clusters", win.size), zap.Float64("ami", win.oldI))

	for win.size > 2 {
		m := win.bestMerge()
		win.oldI = m.amiAfter
		if err := cl.merge(m, mergeID); err != nil {
			return nil, err
		}
		win.fold(m.to, m.from)
		if err := cl.moveLast(m.from); err != nil {
			return nil, err
		}
		win.shrink(m.to, m.from)

		b.logMerge("reduce", m, mergeID, win.size, 0)
		mergeID++
	}

	root, err := cl.attachRoot(win.bestMerge(), mergeID)
	if err != nil {
		return nil, err
	}
	b.tree = &MergeTree{Root: root}
	b.log.Info("merge tree complete", zap.Int("merges", mergeID+1))
	return flat, nil
}

func (b *Brown) logMerge(phase string, m mergeCandidate, mergeID, window, pending int) {
	b.log.Debug("merge",
		zap.String("phase", phase),
		zap.Int("merge_id", mergeID),
		zap.Int("to", m.to),
		zap.Int("from", m.from),
		zap.Float64("ami_loss", m.loss),
		zap.Float64("ami", m.amiAfter),
		zap.Int("window", window),
		zap.Int("pending", pending),
	)
	b.cfg.Metrics.merge(phase, m.amiAfter)
}

// clustering tracks which words and which subtree occupy each window slot.
type clustering struct {
	wordsToClusters []int
	members         []*roaring.Bitmap
	trees           []*Node
	maxSlot         int
}

func newClustering(slots, vocabularySize int) *clustering {
	cl := &clustering{
		wordsToClusters: make([]int, vocabularySize),
		members:         make([]*roaring.Bitmap, slots),
		trees:           make([]*Node, slots),
		maxSlot:         slots - 1,
	}
	for s := 0; s < slots; s++ {
		cl.wordsToClusters[s] = s
		cl.members[s] = roaring.BitmapOf(uint32(s))
		cl.trees[s] = newLeaf(s)
	}
	return cl
}

// merge moves every word of slot m.from into slot m.to and replaces the
// subtree of m.to with an inner node over both subtrees; the left child is
// the subtree that was merged away.
func (cl *clustering) merge(m mergeCandidate, mergeID int) error {
	if m.from > cl.maxSlot || m.to > cl.maxSlot {
		return fmt.Errorf("wordclass: merge (%d into %d) outside slots 0..%d: %w",
			m.from, m.to, cl.maxSlot, ErrInvariantViolation)
	}
	it := cl.members[m.from].Iterator()
	for it.HasNext() {
		cl.wordsToClusters[it.Next()] = m.to
	}
	cl.members[m.to].Or(cl.members[m.from])
	cl.members[m.from].Clear()

	node, err := newInner(cl.trees[m.from], cl.trees[m.to])
	if err != nil {
		return err
	}
	node.AMILoss = m.loss
	node.AMIAfterLoss = m.amiAfter
	node.MergeID = mergeID
	cl.trees[m.to] = node
	cl.trees[m.from] = nil
	return nil
}

// assignLeaf places a pending word in an emptied slot.
func (cl *clustering) assignLeaf(leaf *Node, slot int) error {
	if slot > cl.maxSlot {
		return fmt.Errorf("wordclass: slot %d outside 0..%d: %w", slot, cl.maxSlot, ErrInvariantViolation)
	}
	if cl.trees[slot] != nil || !cl.members[slot].IsEmpty() {
		return fmt.Errorf("wordclass: slot %d is occupied: %w", slot, ErrInvariantViolation)
	}
	if leaf == nil {
		return fmt.Errorf("wordclass: leaf is nil: %w", ErrInvariantViolation)
	}
	cl.trees[slot] = leaf
	cl.members[slot].Add(uint32(leaf.Word))
	cl.wordsToClusters[leaf.Word] = slot
	return nil
}

// moveLast moves the last slot into the emptied slot dest and drops the last
// slot.
func (cl *clustering) moveLast(dest int) error {
	if dest > cl.maxSlot {
		return fmt.Errorf("wordclass: slot %d outside 0..%d: %w", dest, cl.maxSlot, ErrInvariantViolation)
	}
	if !cl.members[dest].IsEmpty() {
		return fmt.Errorf("wordclass: slot %d is not empty, it holds %d words: %w",
			dest, cl.members[dest].GetCardinality(), ErrInvariantViolation)
	}
	if dest != cl.maxSlot {
		if cl.trees[cl.maxSlot] == nil {
			return fmt.Errorf("wordclass: last slot %d has no subtree: %w", cl.maxSlot, ErrInvariantViolation)
		}
		last := cl.members[cl.maxSlot]
		it := last.Iterator()
		for it.HasNext() {
			cl.wordsToClusters[it.Next()] = dest
		}
		cl.members[dest], cl.members[cl.maxSlot] = last, cl.members[dest]
		cl.trees[dest] = cl.trees[cl.maxSlot]
		cl.trees[cl.maxSlot] = nil
	}
	cl.maxSlot--
	return nil
}

// setFinal marks every subtree in the window as a final cluster.
func (cl *clustering) setFinal() {
	for s := 0; s <= cl.maxSlot; s++ {
		cl.trees[s].Final = true
	}
}

// attachRoot joins the two remaining subtrees, slot 0 on the left.
func (cl *clustering) attachRoot(m mergeCandidate, mergeID int) (*Node, error) {
	if cl.maxSlot != 1 {
		return nil, fmt.Errorf("wordclass: root needs exactly 2 slots, have %d: %w", cl.maxSlot+1, ErrInvariantViolation)
	}
	root, err := newInner(cl.trees[0], cl.trees[1])
	if err != nil {
		return nil, err
	}
	root.AMILoss = m.loss
	root.AMIAfterLoss = m.amiAfter
	root.MergeID = mergeID
	cl.trees[0], cl.trees[1] = nil, nil
	return root, nil
}
