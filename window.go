package wordclass

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// window is the active set of the Brown engine: up to capacity clusters held
// in slots 0..size-1 together with their pairwise statistics.
//
// Invariants between operations:
//
//	oldI  == sum of q(a, b) over the window
//	sk[a] == row sum of q at a + column sum of q at a - q(a, a)
//	q(a, b) == MI(occ[a][b]/t, plC[a], prC[b])
type window struct {
	t        float64
	capacity int
	size     int

	plC, prC []float64
	// occ[a*capacity+b] counts transitions from slot a to slot b.
	occ  []int
	q    *mat.Dense
	sk   []float64
	oldI float64

	pool *workerPool
	// best holds one local winner per scanned range; scratch holds per-slot
	// terms that are summed in slot order.
	best    []mergeCandidate
	scratch []float64
}

// mergeCandidate describes merging slot from into slot to, to < from.
type mergeCandidate struct {
	to, from  int
	loss      float64
	amiAfter  float64
	evaluated bool
}

// less orders candidates by loss, then by the lower slot, then by the higher
// slot.
func (m mergeCandidate) less(o mergeCandidate) bool {
	if !o.evaluated {
		return m.evaluated
	}
	if m.loss != o.loss {
		return m.loss < o.loss
	}
	if m.to != o.to {
		return m.to < o.to
	}
	return m.from < o.from
}

// newWindow fills slots 0..size-1 with words 0..size-1.
func newWindow(c *Corpus, adj Adjacency, size int, pool *workerPool) *window {
	w := &window{
		t:        float64(c.Transitions()),
		capacity: size,
		size:     size,
		plC:      make([]float64, size),
		prC:      make([]float64, size),
		occ:      make([]int, size*size),
		q:        mat.NewDense(size, size, nil),
		sk:       make([]float64, size),
		pool:     pool,
		scratch:  make([]float64, size),
	}
	copy(w.plC, c.PL[:size])
	copy(w.prC, c.PR[:size])
	for a := 0; a < size; a++ {
		for _, r := range adj.Right[a] {
			if r.Word >= size {
				break
			}
			w.occ[a*size+r.Word] = r.Count
		}
	}
	w.oldI = w.computeQ()
	computeSk(w.sk, w.q, size)
	return w
}

// computeQ fills q for the whole window and returns its total.
func (w *window) computeQ() float64 {
	w.pool.run(w.size, func(lo, hi int) {
		for a := lo; a < hi; a++ {
			row := w.q.RawRowView(a)
			for b := 0; b < w.size; b++ {
				row[b] = MI(float64(w.occ[a*w.capacity+b])/w.t, w.plC[a], w.prC[b])
			}
		}
	})
	return w.totalQ()
}

// computeSk adds to sk, for every a < size, the q mass in row a and column a,
// counting the diagonal once.
func computeSk(sk []float64, q mat.Matrix, size int) {
	for a := 0; a < size; a++ {
		for b := 0; b < size; b++ {
			v := q.At(a, b)
			sk[b] += v
			if a != b {
				sk[a] += v
			}
		}
	}
}

// mergeContribution is the MI mass of the cluster formed by merging a and b,
// against every other slot and itself.
func (w *window) mergeContribution(a, b int) float64 {
	n := w.capacity
	pl := w.plC[a] + w.plC[b]
	pr := w.prC[a] + w.prC[b]
	total := 0.0
	for m := 0; m < w.size; m++ {
		switch m {
		case a:
			joint := float64(w.occ[a*n+a]+w.occ[a*n+b]+w.occ[b*n+b]+w.occ[b*n+a]) / w.t
			total += MI(joint, pl, pr)
		case b:
		default:
			out := float64(w.occ[a*n+m]+w.occ[b*n+m]) / w.t
			in := float64(w.occ[m*n+a]+w.occ[m*n+b]) / w.t
			total += MI(out, pl, w.prC[m])
			total += MI(in, w.plC[m], pr)
		}
	}
	return total
}

// evaluate computes the AMI after merging b into a, a < b.
func (w *window) evaluate(a, b int) mergeCandidate {
	newI := w.oldI - w.sk[a] - w.sk[b] + w.q.At(a, b) + w.q.At(b, a) + w.mergeContribution(a, b)
	return mergeCandidate{
		to:        a,
		from:      b,
		loss:      w.oldI - newI,
		amiAfter:  newI,
		evaluated: true,
	}
}

// bestMerge returns the pair losing the least AMI. Workers scan disjoint
// ranges of the lower slot; their local winners are reduced in range order
// with the same ordering, so equal losses resolve to the lowest pair whatever
// the worker count.
func (w *window) bestMerge() mergeCandidate {
	rs := w.pool.ranges(w.size - 1)
	if cap(w.best) < len(rs) {
		w.best = make([]mergeCandidate, len(rs))
	}
	w.best = w.best[:len(rs)]
	w.pool.each(rs, func(k, lo, hi int) {
		var local mergeCandidate
		for a := lo; a < hi; a++ {
			for b := a + 1; b < w.size; b++ {
				if c := w.evaluate(a, b); c.less(local) {
					local = c
				}
			}
		}
		w.best[k] = local
	})

	var best mergeCandidate
	for _, c := range w.best {
		if c.less(best) {
			best = c
		}
	}
	return best
}

// fold adds the statistics of slot from into slot to.
func (w *window) fold(to, from int) {
	n := w.capacity
	w.plC[to] += w.plC[from]
	w.prC[to] += w.prC[from]
	for m := 0; m < w.size; m++ {
		if m == from {
			w.occ[to*n+to] += w.occ[from*n+from]
			continue
		}
		w.occ[to*n+m] += w.occ[from*n+m]
		w.occ[m*n+to] += w.occ[m*n+from]
	}
}

// include places word into the emptied slot after fold(to, slot). Only
// neighbors with ids up to word are inside the window; slotOf maps them to
// their slot.
func (w *window) include(to, slot, word int, c *Corpus, adj Adjacency, slotOf []int) {
	n := w.capacity
	w.plC[slot] = c.PL[word]
	w.prC[slot] = c.PR[word]
	for m := 0; m < w.size; m++ {
		w.occ[m*n+slot] = 0
		w.occ[slot*n+m] = 0
	}
	for _, l := range adj.Left[word] {
		if l.Word > word {
			break
		}
		w.occ[slotOf[l.Word]*n+slot] += l.Count
	}
	for _, r := range adj.Right[word] {
		if r.Word >= word {
			break
		}
		w.occ[slot*n+slotOf[r.Word]] += r.Count
	}

	w.removeSk(to, slot)
	w.refreshSlot(to, -1)
	w.oldI += w.refreshSlot(slot, to)
}

// shrink drops the emptied slot after fold(to, slot) by moving the last slot
// into it.
func (w *window) shrink(to, slot int) {
	w.removeSk(to, slot)
	w.moveLast(slot)
	w.refreshSlot(to, -1)
}

// moveLast copies the last slot into slot and shrinks the window by one. It
// does not touch q values of any other pair.
func (w *window) moveLast(slot int) {
	swapForVector(w.plC, slot, w.size)
	swapForVector(w.prC, slot, w.size)
	swapForVector(w.sk, slot, w.size)
	swapForMatrix(w.occ, w.capacity, slot, w.size)
	raw := w.q.RawMatrix()
	swapForMatrix(raw.Data, raw.Stride, slot, w.size)
	w.size--
}

// removeSk takes the q mass shared with slots a and b out of every sk.
func (w *window) removeSk(a, b int) {
	w.pool.run(w.size, func(lo, hi int) {
		for m := lo; m < hi; m++ {
			w.sk[m] -= w.q.At(a, m) + w.q.At(m, a) + w.q.At(b, m) + w.q.At(m, b)
		}
	})
}

// refreshSlot recomputes row and column a of q, rebuilds sk[a] and adds the
// new pair terms to sk of every other slot except skip. It returns sk[a].
func (w *window) refreshSlot(a, skip int) float64 {
	n := w.capacity
	w.pool.run(w.size, func(lo, hi int) {
		for m := lo; m < hi; m++ {
			in := MI(float64(w.occ[m*n+a])/w.t, w.plC[m], w.prC[a])
			out := MI(float64(w.occ[a*n+m])/w.t, w.plC[a], w.prC[m])
			w.q.Set(m, a, in)
			w.q.Set(a, m, out)
			w.scratch[m] = in
			if m != a {
				w.scratch[m] += out
				if m != skip {
					w.sk[m] += in + out
				}
			}
		}
	})
	w.sk[a] = floats.Sum(w.scratch[:w.size])
	return w.sk[a]
}

// totalQ sums q over the window.
func (w *window) totalQ() float64 {
	total := 0.0
	for a := 0; a < w.size; a++ {
		for b := 0; b < w.size; b++ {
			total += w.q.At(a, b)
		}
	}
	return total
}

// swapForVector moves the element at size-1 into pos.
func swapForVector[T any](v []T, pos, size int) {
	v[pos] = v[size-1]
}

// swapForMatrix moves row and column size-1 of the row-major matrix m into
// row and column pos. The whole row is copied; the column only for the first
// size rows.
func swapForMatrix[T any](m []T, stride, pos, size int) {
	last := size - 1
	copy(m[pos*stride:(pos+1)*stride], m[last*stride:(last+1)*stride])
	for r := 0; r < size; r++ {
		m[r*stride+pos] = m[r*stride+last]
	}
}
