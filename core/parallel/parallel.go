// Package parallel splits row ranges across goroutines.
//
// Work functions receive disjoint [start, end) ranges and must only write to
// the rows they own; results are then identical to a sequential run.
package parallel

import (
	"runtime"
	"sync"
)

// ForRange divides [0, items) into at most workers contiguous chunks and runs
// fn on each chunk concurrently. workers <= 0 means runtime.GOMAXPROCS(0).
func ForRange(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > items {
		workers = items
	}
	if workers == 1 {
		fn(0, items)
		return
	}

	// ceiling division so every item is covered
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := start + chunk
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForRangeWithThreshold runs fn sequentially when the total amount of work
// (items × cost per item) is below threshold, and in parallel otherwise.
func ForRangeWithThreshold(items, costPerItem, threshold int, fn func(start, end int)) {
	if items*costPerItem < threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	ForRange(items, 0, fn)
}
