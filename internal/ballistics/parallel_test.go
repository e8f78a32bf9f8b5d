package ballistics

import (
	"sync/atomic"
	"testing"
)

func TestParallelForCoversRange(t *testing.T) {
	tests := []struct {
		name        string
		n, minChunk int
	}{
		{"empty", 0, 1},
		{"single", 1, 1},
		{"serial", 10, 64},
		{"chunked", 1000, 7},
		{"bad chunk", 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			var calls atomic.Int32
			ParallelFor(tt.n, tt.minChunk, func(start, end int) {
				calls.Add(1)
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
			if calls.Load() == 0 {
				t.Error("fn never called")
			}
		})
	}
}
