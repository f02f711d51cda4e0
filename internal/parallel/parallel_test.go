package parallel

import (
	"sync/atomic"
	"testing"
)

func TestRangeCoversEveryIndex(t *testing.T) {
	const n = 1000
	var hits [n]int32
	Range(0, n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}

func TestRangeEmpty(t *testing.T) {
	called := false
	Range(5, 5, func(i int) { called = true })
	Range(5, 2, func(i int) { called = true })
	if called {
		t.Error("fn called for empty range")
	}
}

func TestRangeOffsetStart(t *testing.T) {
	var sum int64
	Range(10, 20, func(i int) {
		atomic.AddInt64(&sum, int64(i))
	})
	if sum != 145 {
		t.Errorf("expected sum 145, got %d", sum)
	}
}
