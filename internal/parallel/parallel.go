package parallel

import (
	"runtime"
	"sync"
)

// Range executes fn for each i in [start, end), splitting the range into
// contiguous chunks across available CPUs. It returns once every chunk has
// completed, so callers can treat each invocation as a barriered sweep.
func Range(start, end int, fn func(i int)) {
	total := end - start
	if total <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > total {
		workers = total
	}
	if workers <= 1 {
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	chunk := (total + workers - 1) / workers
	for w := 0; w < workers; w++ {
		s := start + w*chunk
		e := s + chunk
		if e > end {
			e = end
		}
		if s >= end {
			break
		}
		wg.Add(1)
		go func(ss, ee int) {
			defer wg.Done()
			for i := ss; i < ee; i++ {
				fn(i)
			}
		}(s, e)
	}
	wg.Wait()
}
