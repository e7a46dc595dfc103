package heap

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds cumulative allocator counters, for instrumentation and
// tests. All counters are monotonic over the life of the Heap.
type Stats struct {
	AllocCalls uint64 // Alloc/AllocNamed/AllocZero/Realloc-grow requests
	FreeCalls  uint64 // non-nil Free/release requests
	ReuseHits  uint64 // allocations satisfied from an existing free block

	Splits         uint64 // successful block splits
	MergesForward  uint64 // coalesces absorbing the next neighbor
	MergesBackward uint64 // coalesces absorbing the previous neighbor

	RegionsMapped   uint64
	RegionsUnmapped uint64
	BytesMapped     uint64
	BytesUnmapped   uint64
}

// Stats returns a snapshot of the counters.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// Live reports regions and bytes currently mapped.
func (s Stats) Live() (regions, bytes uint64) {
	return s.RegionsMapped - s.RegionsUnmapped, s.BytesMapped - s.BytesUnmapped
}

// String renders the counters on one line with grouped digits, for
// diagnostics output.
func (s Stats) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf(
		"allocs=%d frees=%d reuses=%d splits=%d merges=%d fwd/%d back regions=%d mapped/%d unmapped bytes=%d mapped/%d unmapped",
		s.AllocCalls, s.FreeCalls, s.ReuseHits, s.Splits,
		s.MergesForward, s.MergesBackward,
		s.RegionsMapped, s.RegionsUnmapped,
		s.BytesMapped, s.BytesUnmapped,
	)
}
