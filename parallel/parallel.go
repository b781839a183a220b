/*package parallel runs particle loops across a fixed pool of workers.

Work is handed out in small contiguous chunks claimed through an atomic
cursor, so workers that hit cheap particles simply claim more chunks. The
only supported way to write to memory shared between workers is AddFloat64.
*/
package parallel

import (
	"math"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// DefaultChunk is the number of consecutive indices a worker claims at once.
const DefaultChunk = 10

// For calls body(i) for every i in [0, n), spread across workers goroutines.
// workers <= 0 uses runtime.NumCPU() and chunk <= 0 uses DefaultChunk. For
// returns once every call to body has returned. body must be safe to call
// from multiple goroutines.
func For(n, chunk, workers int, body func(i int)) {
	if n <= 0 { return }
	if chunk <= 0 { chunk = DefaultChunk }
	if workers <= 0 { workers = runtime.NumCPU() }
	if maxWorkers := (n + chunk - 1) / chunk; workers > maxWorkers {
		workers = maxWorkers
	}

	cursor := int64(0)
	out := make(chan int, workers)

	run := func(id int) {
		for {
			start := int(atomic.AddInt64(&cursor, int64(chunk))) - chunk
			if start >= n { break }
			end := start + chunk
			if end > n { end = n }
			for i := start; i < end; i++ { body(i) }
		}
		out <- id
	}

	for id := 0; id < workers-1; id++ { go run(id) }
	run(workers - 1)

	for i := 0; i < workers; i++ { <-out }
}

// AddFloat64 atomically adds v to *x. Mixing AddFloat64 with plain writes to
// the same address is a race; plain reads are fine once For has returned.
func AddFloat64(x *float64, v float64) {
	bits := (*uint64)(unsafe.Pointer(x))
	for {
		old := atomic.LoadUint64(bits)
		upd := math.Float64bits(math.Float64frombits(old) + v)
		if atomic.CompareAndSwapUint64(bits, old, upd) { return }
	}
}
