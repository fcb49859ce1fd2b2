package wordclass

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Exchange is the flat clustering engine. It keeps a partition of the
// vocabulary into a fixed number of clusters and relocates one word at a time
// to the cluster that maximizes AMI.
//
// All aggregate state is owned by the engine; an Exchange must not be used
// from more than one goroutine at a time.
type Exchange struct {
	corpus *Corpus
	adj    Adjacency
	cfg    Config
	log    *zap.Logger
	name   string

	// transitions as float64, the denominator of every joint probability.
	t float64

	initialized bool
	numClusters int

	wordsToClusters []int
	members         []*roaring.Bitmap

	// occ[a*numClusters+b] is the number of transitions from a word in
	// cluster a to a word in cluster b.
	occ []int
	// entropy(a, b) = EntropyTerm(occ[a][b]/t); sumRows and sumCols hold its
	// row and column sums.
	entropy *mat.Dense
	sumRows []float64
	sumCols []float64

	plC, prC          []float64
	entLeft, entRight []float64

	// wordToCluster[w*numClusters+c] counts transitions from w into cluster c;
	// clusterToWord[c*vocabularySize+w] counts transitions from cluster c into w.
	// Each holds vocabularySize*numClusters counts, so they dominate memory.
	wordToCluster []int32
	clusterToWord []int32
	selfLoops     []int

	changes       int
	amiIncreasing bool
	iterations    int

	deltas     []float64
	rowDiffs   []float64
	stochastic *randomPolicy
}

// NewExchange creates an Exchange engine over c. The corpus is read, never
// modified, and must outlive the engine.
//
// Initialize allocates two word-by-cluster profile tables of 4 bytes per
// entry: about 8*vocabularySize*numClusters bytes, 400 MB for 50k words and
// 1000 clusters. Corpora with more than math.MaxInt32 transitions are
// rejected since profile counts are int32.
func NewExchange(c *Corpus, cfg Config) (*Exchange, error) {
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Transitions() > math.MaxInt32 {
		return nil, fmt.Errorf("wordclass: %d transitions exceed the Exchange limit of %d: %w",
			c.Transitions(), math.MaxInt32, ErrInvalidParameter)
	}
	return &Exchange{
		corpus:        c,
		adj:           NewAdjacency(c),
		cfg:           cfg,
		log:           cfg.Logger.With(zap.String("algorithm", "exchange")),
		name:          "Exchange",
		t:             float64(c.Transitions()),
		amiIncreasing: true,
	}, nil
}

// Name identifies the implementation in logs and experiment records.
func (e *Exchange) Name() string {
	return e.name
}

// Cluster initializes the default assignment for numClusters clusters (see
// DefaultAssignments) and runs up to maxIterations passes. It returns the
// canonically ordered assignment.
func (e *Exchange) Cluster(numClusters, maxIterations int, minAMIChange float64) ([]int, error) {
	return e.ClusterFrom(numClusters, maxIterations, nil, minAMIChange)
}

// ClusterFrom is Cluster starting from the given assignment. A nil assignment
// selects the default one.
func (e *Exchange) ClusterFrom(numClusters, maxIterations int, assignments []int, minAMIChange float64) ([]int, error) {
	if maxIterations < 0 {
		return nil, fmt.Errorf("wordclass: maxIterations must be >= 0, got %d: %w", maxIterations, ErrInvalidParameter)
	}
	if err := e.Initialize(numClusters, assignments); err != nil {
		return nil, err
	}
	e.run(maxIterations, minAMIChange)
	return e.ClusterAssignments(), nil
}

// ClusterOneIteration runs a single pass over the vocabulary and reports
// whether the clustering has converged. Exchange converges when the pass moved
// no word and the AMI gain did not exceed minAMIChange. StochasticExchange
// ignores minAMIChange and converges only on a pass without moves.
func (e *Exchange) ClusterOneIteration(minAMIChange float64) (bool, error) {
	if !e.initialized {
		return false, fmt.Errorf("wordclass: ClusterOneIteration: %w", ErrNotInitialized)
	}
	e.run(1, minAMIChange)
	return e.converged(), nil
}

// ChangesInPreviousIteration returns the number of moves made in the last
// completed pass.
func (e *Exchange) ChangesInPreviousIteration() int {
	return e.changes
}

// Iterations returns the number of passes completed by the last run.
func (e *Exchange) Iterations() int {
	return e.iterations
}

// NumClusters returns the number of clusters of the current partition.
func (e *Exchange) NumClusters() int {
	return e.numClusters
}

// ClusterAssignments returns the current assignment with canonically ordered
// cluster ids (see SortClusterAssignments).
func (e *Exchange) ClusterAssignments() []int {
	return SortClusterAssignments(e.wordsToClusters, e.numClusters)
}

// CalculateAMI returns the AMI of the current partition in O(numClusters)
// from the maintained entropy sums.
func (e *Exchange) CalculateAMI() float64 {
	ami := 0.0
	for c := 0; c < e.numClusters; c++ {
		ami += e.sumRows[c]
		ami -= e.entLeft[c]
		ami -= e.entRight[c]
	}
	return ami
}

// Initialize builds all aggregate state for numClusters clusters from
// assignments, or from DefaultAssignments when assignments is nil. It runs in
// O(vocabulary + transitions + numClusters²) and validates its parameters
// before touching any state.
func (e *Exchange) Initialize(numClusters int, assignments []int) error {
	v := e.corpus.VocabularySize
	if numClusters < 1 || numClusters > v {
		return fmt.Errorf("wordclass: numClusters must be in [1, %d], got %d: %w", v, numClusters, ErrInvalidParameter)
	}
	if assignments == nil {
		assignments = DefaultAssignments(v, numClusters)
	}
	if err := validateAssignments(assignments, v, numClusters); err != nil {
		return err
	}

	k := numClusters
	e.numClusters = k
	e.wordsToClusters = append([]int(nil), assignments...)
	e.members = make([]*roaring.Bitmap, k)
	for c := range e.members {
		e.members[c] = roaring.New()
	}
	e.occ = make([]int, k*k)
	e.entropy = mat.NewDense(k, k, nil)
	e.sumRows = make([]float64, k)
	e.sumCols = make([]float64, k)
	e.plC = make([]float64, k)
	e.prC = make([]float64, k)
	e.entLeft = make([]float64, k)
	e.entRight = make([]float64, k)
	e.wordToCluster = make([]int32, v*k)
	e.clusterToWord = make([]int32, k*v)
	e.selfLoops = make([]int, v)
	e.deltas = make([]float64, k)
	e.rowDiffs = make([]float64, k)

	for w := 0; w < v; w++ {
		c := e.wordsToClusters[w]
		e.members[c].Add(uint32(w))
		e.plC[c] += e.corpus.PL[w]
		e.prC[c] += e.corpus.PR[w]
	}

	for w := 0; w < v; w++ {
		c := e.wordsToClusters[w]
		for _, r := range e.adj.Right[w] {
			rc := e.wordsToClusters[r.Word]
			e.occ[c*k+rc] += r.Count
			e.wordToCluster[w*k+rc] += int32(r.Count)
			e.clusterToWord[c*v+r.Word] += int32(r.Count)
			if r.Word == w {
				e.selfLoops[w] = r.Count
			}
		}
	}

	for c := 0; c < k; c++ {
		e.entLeft[c] = EntropyTerm(e.plC[c])
		e.entRight[c] = EntropyTerm(e.prC[c])
	}

	for a := 0; a < k; a++ {
		for b := 0; b < k; b++ {
			h := EntropyTerm(float64(e.occ[a*k+b]) / e.t)
			e.entropy.Set(a, b, h)
			e.sumRows[a] += h
			e.sumCols[b] += h
		}
	}

	e.changes = 0
	e.amiIncreasing = true
	e.iterations = 0
	e.initialized = true
	return nil
}

// converged reports whether the last pass ends the run.
func (e *Exchange) converged() bool {
	if e.stochastic != nil {
		return e.changes == 0
	}
	return e.changes == 0 && !e.amiIncreasing
}

// run performs up to maxIterations passes. Each word decision is a parallel
// compute step over candidate clusters followed by a single-threaded commit;
// the pool's barrier separates the two.
func (e *Exchange) run(maxIterations int, minAMIChange float64) {
	e.iterations = 0
	if maxIterations <= 0 {
		return
	}

	pool := newWorkerPool(e.cfg.Workers)
	defer pool.close()

	ami := e.CalculateAMI()
	e.changes = 1
	for it := 0; it < maxIterations; it++ {
		if e.converged() {
			break
		}
		e.changes = 0
		randomMoves := 0

		for w := 0; w < e.corpus.VocabularySize; w++ {
			from := e.wordsToClusters[w]
			if e.members[from].GetCardinality() <= 1 {
				continue
			}

			dest, random := e.stochastic.draw(e.numClusters)
			if random {
				randomMoves++
			} else {
				dest = e.bestCandidate(pool, w)
				if dest == from {
					continue
				}
			}
			e.move(pool, w, dest)
			e.changes++
		}

		newAMI := e.CalculateAMI()
		delta := newAMI - ami
		ami = newAMI
		if e.stochastic != nil {
			e.amiIncreasing = true
		} else {
			e.amiIncreasing = delta > minAMIChange
		}
		e.iterations++

		e.log.Info("iteration done",
			zap.Int("iteration", it+1),
			zap.Int("moves", e.changes),
			zap.Int("random_moves", randomMoves),
			zap.Float64("ami", newAMI),
			zap.Float64("ami_change", delta),
		)
		e.cfg.Metrics.iteration(e.name, e.changes, randomMoves, newAMI)
	}
}

// bestCandidate returns the cluster that maximizes AMI after moving w. The
// current cluster scores 0; the first maximum wins, so ties go to the lowest
// cluster id.
func (e *Exchange) bestCandidate(pool *workerPool, w int) int {
	from := e.wordsToClusters[w]
	pool.run(e.numClusters, func(lo, hi int) {
		for c := lo; c < hi; c++ {
			if c == from {
				e.deltas[c] = 0
			} else {
				e.deltas[c] = e.amiDelta(w, c)
			}
		}
	})
	return floats.MaxIdx(e.deltas)
}

// amiDelta returns AMI(after moving w to cand) - AMI(now) using only the
// cluster aggregates and the profile vectors of w.
func (e *Exchange) amiDelta(w, cand int) float64 {
	k := e.numClusters
	v := e.corpus.VocabularySize
	from := e.wordsToClusters[w]
	t := e.t
	occ := e.occ
	wc := e.wordToCluster[w*k : (w+1)*k]
	cw := func(c int) int { return int(e.clusterToWord[c*v+w]) }
	self := e.selfLoops[w]

	// Everything in the rows and columns of from and cand goes away.
	d := e.entLeft[from] + e.entRight[from] + e.entLeft[cand] + e.entRight[cand]
	d -= e.sumRows[cand] + e.sumCols[cand]
	d += EntropyTerm(float64(occ[cand*k+cand]) / t)
	d -= e.sumRows[from] + e.sumCols[from]
	d += EntropyTerm(float64(occ[from*k+from]) / t)
	d += EntropyTerm(float64(occ[from*k+cand]) / t)
	d += EntropyTerm(float64(occ[cand*k+from]) / t)

	// And comes back with w relocated.
	for c := 0; c < k; c++ {
		if c == cand || c == from {
			continue
		}
		d += EntropyTerm(float64(occ[cand*k+c]+int(wc[c])) / t)
		d += EntropyTerm(float64(occ[c*k+cand]+cw(c)) / t)
		d += EntropyTerm(float64(occ[from*k+c]-int(wc[c])) / t)
		d += EntropyTerm(float64(occ[c*k+from]-cw(c)) / t)
	}

	wcFrom, wcCand := int(wc[from]), int(wc[cand])
	d += EntropyTerm(float64(occ[cand*k+from]-cw(cand)+wcFrom-self) / t)
	d += EntropyTerm(float64(occ[from*k+cand]-wcCand+cw(from)-self) / t)
	d += EntropyTerm(float64(occ[cand*k+cand]+cw(cand)+wcCand+self) / t)
	d += EntropyTerm(float64(occ[from*k+from]-(cw(from)+wcFrom-self)) / t)

	pl, pr := e.corpus.PL[w], e.corpus.PR[w]
	d -= EntropyTerm(e.plC[cand] + pl)
	d -= EntropyTerm(e.prC[cand] + pr)
	d -= EntropyTerm(e.plC[from] - pl)
	d -= EntropyTerm(e.prC[from] - pr)
	return d
}

// move relocates w to cluster to, updating every aggregate in
// O(|neighbors of w| + numClusters). Moving a word to its own cluster is a
// no-op.
func (e *Exchange) move(pool *workerPool, w, to int) {
	from := e.wordsToClusters[w]
	if from == to {
		return
	}
	k := e.numClusters
	v := e.corpus.VocabularySize

	e.plC[from] -= e.corpus.PL[w]
	e.prC[from] -= e.corpus.PR[w]
	e.entLeft[from] = EntropyTerm(e.plC[from])
	e.entRight[from] = EntropyTerm(e.prC[from])

	e.plC[to] += e.corpus.PL[w]
	e.prC[to] += e.corpus.PR[w]
	e.entLeft[to] = EntropyTerm(e.plC[to])
	e.entRight[to] = EntropyTerm(e.prC[to])

	e.members[from].Remove(uint32(w))
	e.members[to].Add(uint32(w))
	e.wordsToClusters[w] = to

	for _, r := range e.adj.Right[w] {
		if r.Word == w {
			continue
		}
		rc := e.wordsToClusters[r.Word]
		e.occ[from*k+rc] -= r.Count
		e.occ[to*k+rc] += r.Count
		e.clusterToWord[from*v+r.Word] -= int32(r.Count)
		e.clusterToWord[to*v+r.Word] += int32(r.Count)
	}
	for _, l := range e.adj.Left[w] {
		if l.Word == w {
			continue
		}
		lc := e.wordsToClusters[l.Word]
		e.occ[lc*k+from] -= l.Count
		e.occ[lc*k+to] += l.Count
		e.wordToCluster[l.Word*k+from] -= int32(l.Count)
		e.wordToCluster[l.Word*k+to] += int32(l.Count)
	}
	if self := e.selfLoops[w]; self > 0 {
		e.occ[from*k+from] -= self
		e.occ[to*k+to] += self
		e.clusterToWord[from*v+w] -= int32(self)
		e.clusterToWord[to*v+w] += int32(self)
		e.wordToCluster[w*k+from] -= int32(self)
		e.wordToCluster[w*k+to] += int32(self)
	}

	for _, i := range [2]int{from, to} {
		e.refreshRow(pool, i)
	}
	for _, i := range [2]int{from, to} {
		e.refreshColumn(pool, i)
	}
}

// refreshRow recomputes the entropy terms of row i. The per-column work runs
// in parallel; the row sum is reduced in column order afterwards so the
// result does not depend on the worker count.
func (e *Exchange) refreshRow(pool *workerPool, i int) {
	k := e.numClusters
	row := e.entropy.RawRowView(i)
	pool.run(k, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			h := EntropyTerm(float64(e.occ[i*k+j]) / e.t)
			diff := h - row[j]
			row[j] = h
			e.sumCols[j] += diff
			e.rowDiffs[j] = diff
		}
	})
	e.sumRows[i] += floats.Sum(e.rowDiffs)
}

// refreshColumn is refreshRow for column i.
func (e *Exchange) refreshColumn(pool *workerPool, i int) {
	k := e.numClusters
	pool.run(k, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			h := EntropyTerm(float64(e.occ[j*k+i]) / e.t)
			diff := h - e.entropy.At(j, i)
			e.entropy.Set(j, i, h)
			e.sumRows[j] += diff
			e.rowDiffs[j] = diff
		}
	})
	e.sumCols[i] += floats.Sum(e.rowDiffs)
}
