package wordclass

import (
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RangesCoverInput(t *testing.T) {
	withGrain(t, 1)
	for _, workers := range []int{1, 2, 3, 8} {
		p := newWorkerPool(workers)
		for _, n := range []int{1, 5, 64, 1000} {
			rs := p.ranges(n)
			next := 0
			for _, r := range rs {
				if r[0] != next || r[1] <= r[0] {
					t.Fatalf("workers=%d n=%d: bad range %v after %d", workers, n, r, next)
				}
				next = r[1]
			}
			if next != n {
				t.Errorf("workers=%d n=%d: ranges end at %d", workers, n, next)
			}
		}
		p.close()
	}
}

func TestWorkerPool_SmallInputRunsInline(t *testing.T) {
	p := newWorkerPool(4)
	defer p.close()
	if rs := p.ranges(parallelGrain - 1); len(rs) != 1 {
		t.Errorf("got %d ranges below the grain, want 1", len(rs))
	}
	if rs := p.ranges(0); rs != nil {
		t.Errorf("ranges(0) = %v, want nil", rs)
	}
}

func TestWorkerPool_EachIsBarrier(t *testing.T) {
	withGrain(t, 1)
	p := newWorkerPool(4)
	defer p.close()

	out := make([]int, 500)
	var calls atomic.Int32
	for round := 1; round <= 3; round++ {
		p.run(len(out), func(lo, hi int) {
			calls.Add(1)
			for i := lo; i < hi; i++ {
				out[i] += i
			}
		})
		// Every write of this round is visible once run returns.
		for i, v := range out {
			if v != round*i {
				t.Fatalf("round %d: out[%d] = %d, want %d", round, i, v, round*i)
			}
		}
	}
	if calls.Load() < 3 {
		t.Errorf("only %d range calls", calls.Load())
	}
}

func TestWorkerPool_EachPassesRangeIndex(t *testing.T) {
	withGrain(t, 1)
	p := newWorkerPool(3)
	defer p.close()

	rs := p.ranges(100)
	sums := make([]int, len(rs))
	p.each(rs, func(k, lo, hi int) {
		for i := lo; i < hi; i++ {
			sums[k] += i
		}
	})
	total := 0
	for _, s := range sums {
		total += s
	}
	if total != 99*100/2 {
		t.Errorf("total = %d, want %d", total, 99*100/2)
	}
}
