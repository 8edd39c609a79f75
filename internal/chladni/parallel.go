package chladni

import "sync"

// MaxWorkers caps the number of chunks a buffer is split into.
const MaxWorkers = 4

// Chunks returns how many chunks ParallelFor splits n items into. It
// depends only on n and minChunk, never on the host CPU count.
func Chunks(n, minChunk int) int {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk {
		return 1
	}
	workers := MaxWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// ParallelFor executes fn over [0, n) in Chunks(n, minChunk) contiguous
// ranges, concurrently when there is more than one.
func ParallelFor(n, minChunk int, fn func(chunk, start, end int)) {
	workers := Chunks(n, minChunk)
	if workers == 1 {
		fn(0, 0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(c, s, e int) {
			defer wg.Done()
			fn(c, s, e)
		}(w, start, end)
	}

	wg.Wait()
}
