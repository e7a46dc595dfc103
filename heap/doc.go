// Package heap implements a page-region block allocator: a drop-in
// dynamic-memory interface (allocate, zero-allocate, resize, release)
// managing raw address space obtained from the operating system.
//
// # Overview
//
// Memory is acquired from the OS in page-granular regions and subdivided
// into variable-size blocks. Every block carries a fixed header directly
// in front of its payload; the headers form one intrusive doubly-linked
// list across the whole heap, ordered by ascending address. Freed blocks
// are reused for later requests via a configurable search strategy and
// merged with free same-region neighbors to fight fragmentation. A region
// whose last live block is released is unmapped in full.
//
// # Usage
//
//	h := heap.New(heap.WithStrategy(heap.BestFit))
//
//	p, err := h.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	buf := unsafe.Slice((*byte)(p), 256)
//
//	// ... use buf ...
//
//	h.Free(p)
//
// # Fit strategies
//
// Three interchangeable policies decide which free block satisfies a
// request. All are pure O(n) scans of the block list:
//
//   - FirstFit: first free block large enough, head to tail (default)
//   - BestFit: smallest satisfying free block, ties keep the earliest
//   - WorstFit: largest satisfying free block, ties keep the earliest
//
// The strategy is fixed at construction time, either explicitly through
// WithStrategy or from the ALLOCATOR_ALGORITHM environment variable via
// FromEnv.
//
// # Splitting and coalescing
//
// Reused blocks larger than the request are split into an in-use prefix
// and a free remainder, unless either piece would fall below the minimum
// block size (100 bytes, header included). Releasing a block merges it
// with free neighbors from the same region; blocks from different regions
// are never merged, because a region boundary marks the edge of an
// independent OS mapping.
//
// # Diagnostics
//
// Dump writes the current region/block layout in list order. When poison
// fill is enabled (WithScribble, or ALLOCATOR_SCRIBBLE=1 via FromEnv),
// newly handed-out payload bytes are overwritten with 0xAA so use of
// uninitialized memory shows up immediately. Check audits the structural
// invariants of the list and is meant for tests and debugging.
//
// # Thread safety
//
// All public operations on a Heap are safe for concurrent use. A single
// mutex serializes every mutation of the block list; there is no per-region
// or per-block locking. This trades scalability for simplicity and a total
// order over all operations.
//
// # Limitations
//
// Double release, use after release, and writes past an allocation's
// bounds are undefined behavior, as with any manual allocator. No
// canaries or generation counters are maintained.
package heap
