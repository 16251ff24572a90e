// Package parallel runs data-parallel work over disjoint index ranges.
//
// Work is split into contiguous ranges handed to workers by value. Each
// worker writes only inside its own range (or its own slot of a result
// slice), so no locking is needed and the merge is a plain concatenation.
package parallel

import (
	"runtime"
	"sync"
)

// Thresholds above which the parallel code paths are worth their overhead
const (
	TriangleThreshold       = 1000
	DecodeTriangleThreshold = 10000
	DecodeByteThreshold     = 1 << 20
)

// Range is a half-open index range [Start, End)
type Range struct {
	Start, End int
}

// Len returns the number of indices in the range
func (r Range) Len() int {
	return r.End - r.Start
}

// Workers resolves a requested worker count; values <= 0 mean one per CPU
func Workers(requested int) int {
	if requested <= 0 {
		return runtime.NumCPU()
	}
	return requested
}

// Ranges splits n items into at most workers contiguous, non-overlapping ranges
func Ranges(n, workers int) []Range {
	if n <= 0 {
		return nil
	}
	workers = Workers(workers)
	if workers > n {
		workers = n
	}

	ranges := make([]Range, 0, workers)
	chunk := n / workers
	extra := n % workers
	start := 0
	for w := 0; w < workers; w++ {
		size := chunk
		if w < extra {
			size++
		}
		ranges = append(ranges, Range{Start: start, End: start + size})
		start += size
	}
	return ranges
}

// For runs fn once per range concurrently and waits for all of them
func For(n, workers int, fn func(r Range)) {
	ranges := Ranges(n, workers)
	if len(ranges) == 1 {
		fn(ranges[0])
		return
	}

	var wg sync.WaitGroup
	for _, r := range ranges {
		wg.Add(1)
		go func(r Range) {
			defer wg.Done()
			fn(r)
		}(r)
	}
	wg.Wait()
}

// Map runs fn once per range concurrently; results are returned in range order
func Map[T any](n, workers int, fn func(r Range) T) []T {
	ranges := Ranges(n, workers)
	results := make([]T, len(ranges))
	if len(ranges) == 1 {
		results[0] = fn(ranges[0])
		return results
	}

	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r Range) {
			defer wg.Done()
			results[i] = fn(r)
		}(i, r)
	}
	wg.Wait()
	return results
}

// Concat flattens per-range results into one slice
func Concat[T any](parts [][]T) []T {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
