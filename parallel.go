package wordclass

import "sync"

// parallelGrain is the smallest item count worth splitting across workers.
// Below it the pool runs the work inline on the calling goroutine.
var parallelGrain = 64

// chunksPerWorker oversplits the item range so that uneven work (the
// triangular pair search in Brown) still balances across workers.
const chunksPerWorker = 4

// workerPool is a fixed set of goroutines that execute range tasks. Every
// call to each returns only after all of its tasks completed, which makes it
// the barrier between a parallel compute step and the single-threaded commit
// step that follows it.
type workerPool struct {
	workers int
	tasks   chan poolTask
	wg      sync.WaitGroup
}

type poolTask struct {
	fn     func(k, lo, hi int)
	k      int
	lo, hi int
}

// newWorkerPool starts numWorkers goroutines. With numWorkers <= 1 no
// goroutine is started and all work runs inline.
func newWorkerPool(numWorkers int) *workerPool {
	p := &workerPool{workers: numWorkers}
	if numWorkers > 1 {
		p.tasks = make(chan poolTask)
		for w := 0; w < numWorkers; w++ {
			go p.loop()
		}
	}
	return p
}

func (p *workerPool) loop() {
	for t := range p.tasks {
		t.fn(t.k, t.lo, t.hi)
		p.wg.Done()
	}
}

// close stops the pool goroutines. The pool must not be used afterwards.
func (p *workerPool) close() {
	if p.tasks != nil {
		close(p.tasks)
		p.tasks = nil
	}
}

// ranges splits [0, n) into contiguous chunks. The split depends only on n
// and the worker count, so per-chunk partial results can be reduced in chunk
// order for a deterministic total.
func (p *workerPool) ranges(n int) [][2]int {
	if n <= 0 {
		return nil
	}
	if p.tasks == nil || n < parallelGrain {
		return [][2]int{{0, n}}
	}

	numChunks := min(p.workers*chunksPerWorker, n)
	perChunk := (n + numChunks - 1) / numChunks

	result := make([][2]int, 0, numChunks)
	for lo := 0; lo < n; lo += perChunk {
		result = append(result, [2]int{lo, min(lo+perChunk, n)})
	}
	return result
}

// each runs fn once per range, passing the range index. It blocks until every
// range is done.
func (p *workerPool) each(rs [][2]int, fn func(k, lo, hi int)) {
	if p.tasks == nil || len(rs) <= 1 {
		for k, r := range rs {
			fn(k, r[0], r[1])
		}
		return
	}

	p.wg.Add(len(rs))
	for k, r := range rs {
		p.tasks <- poolTask{fn: fn, k: k, lo: r[0], hi: r[1]}
	}
	p.wg.Wait()
}

// run is each over ranges(n) for callers that write disjoint outputs and need
// no per-range reduction.
func (p *workerPool) run(n int, fn func(lo, hi int)) {
	p.each(p.ranges(n), func(_, lo, hi int) {
		fn(lo, hi)
	})
}
