package heap

import (
	"fmt"
	"math"
	"os"
	"sync"
	"unsafe"

	"github.com/memkit/memkit/internal/format"
	"github.com/memkit/memkit/internal/vmem"
)

// Environment keys honored by FromEnv.
const (
	// EnvStrategy selects the fit strategy: first_fit, best_fit, worst_fit.
	EnvStrategy = "ALLOCATOR_ALGORITHM"

	// EnvScribble enables poison fill when set to the literal "1".
	EnvScribble = "ALLOCATOR_SCRIBBLE"
)

// Runtime debug flag for allocation logging, read once at startup.
var logAlloc = os.Getenv("MEMKIT_LOG_ALLOC") != ""

// Heap is an allocator context: one intrusive, address-ordered block list
// spanning every OS mapping it owns, plus the counters that name blocks
// and number regions. A single mutex serializes all mutation; the
// internal unguarded paths (alloc, release) must only run with it held
// and never take it themselves.
//
// The zero value is not usable; call New.
type Heap struct {
	mu sync.Mutex

	head *block // first block overall, lowest address in its region
	tail *block // last block overall

	strategy Strategy
	scribble bool
	pageSize uintptr

	allocs  uint64 // monotonic; used only for default block labels
	regions uint64 // monotonic; assigns region ids

	stats Stats
}

// Option configures a Heap at construction time.
type Option func(*Heap)

// WithStrategy selects the free-space search policy.
func WithStrategy(s Strategy) Option {
	return func(h *Heap) { h.strategy = s }
}

// WithScribble toggles poison-filling of newly handed-out payload bytes.
func WithScribble(on bool) Option {
	return func(h *Heap) { h.scribble = on }
}

// FromEnv reads the external configuration once: ALLOCATOR_ALGORITHM
// selects the strategy (first_fit when unset or unrecognized) and
// ALLOCATOR_SCRIBBLE enables poison fill when set to "1". The lookups
// happen here, at construction, not per call.
func FromEnv() Option {
	return func(h *Heap) {
		if s, err := ParseStrategy(os.Getenv(EnvStrategy)); err == nil {
			h.strategy = s
		}
		h.scribble = os.Getenv(EnvScribble) == "1"
	}
}

// New constructs an empty Heap. The strategy defaults to FirstFit and
// poison fill to off; the page size comes from the OS.
func New(opts ...Option) *Heap {
	h := &Heap{
		strategy: FirstFit,
		pageSize: uintptr(vmem.PageSize()),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Alloc returns a pointer to at least n usable bytes, or ErrNoMemory when
// the OS refuses to back a new region. n may be zero; the returned block
// still exists and must be released.
func (h *Heap) Alloc(n int) (unsafe.Pointer, error) {
	if n < 0 {
		return nil, ErrBadSize
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alloc(uintptr(n), "")
}

// AllocNamed is Alloc with a caller-supplied debug label in place of the
// default "Allocation <n>". The label shows up in Dump output, truncated
// to 32 bytes; it is not required to be unique.
func (h *Heap) AllocNamed(n int, name string) (unsafe.Pointer, error) {
	if n < 0 {
		return nil, ErrBadSize
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alloc(uintptr(n), name)
}

// AllocZero allocates count*size bytes and zero-fills the payload, like
// calloc. The zeroing runs inside the same critical section as the
// allocation itself; the internal allocator is not reentrant, so this must
// not be expressed as Alloc followed by a second locked step.
//
// A count*size product that overflows returns ErrBadSize.
func (h *Heap) AllocZero(count, size int) (unsafe.Pointer, error) {
	if count < 0 || size < 0 {
		return nil, ErrBadSize
	}
	if size != 0 && count > math.MaxInt/size {
		return nil, ErrBadSize
	}
	n := uintptr(count) * uintptr(size)

	h.mu.Lock()
	defer h.mu.Unlock()

	p, err := h.alloc(n, "")
	if err != nil {
		return nil, err
	}
	// Clear the whole payload, not just count*size: with poison fill on,
	// alignment slack would otherwise hand back 0xAA bytes.
	clear(blockOf(p).payloadBytes())
	return p, nil
}

// Realloc resizes an allocation. A nil pointer behaves as Alloc and a
// zero size as Free (returning nil, nil). When the existing block already
// has capacity for n bytes the same pointer is returned; otherwise a new
// block is allocated, the old payload is copied, and the old block is
// released. On failure the old allocation is left intact.
func (h *Heap) Realloc(p unsafe.Pointer, n int) (unsafe.Pointer, error) {
	if n < 0 {
		return nil, ErrBadSize
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if p == nil {
		return h.alloc(uintptr(n), "")
	}
	if n == 0 {
		h.release(p)
		return nil, nil
	}

	b := blockOf(p)
	if b.payloadSize() >= uintptr(n) {
		return p, nil
	}

	np, err := h.alloc(uintptr(n), b.label())
	if err != nil {
		return nil, err
	}
	// The old payload is strictly smaller than n here, so this copies
	// min(old payload, n) bytes.
	copy(blockOf(np).payloadBytes(), b.payloadBytes())
	h.release(p)
	return np, nil
}

// Free releases an allocation previously returned by this Heap. The block
// is merged with free same-region neighbors, and its region is unmapped
// once nothing live remains in it. A nil pointer is accepted and ignored.
func (h *Heap) Free(p unsafe.Pointer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.release(p)
}

// alloc is the unguarded allocation path. The caller must hold h.mu.
//
// The request is rounded up to the next 8-byte multiple after adding the
// header. A reusable free block found by the configured strategy is split
// (best effort) and handed out; otherwise a fresh region of whole pages
// backs the request.
func (h *Heap) alloc(n uintptr, name string) (unsafe.Pointer, error) {
	h.stats.AllocCalls++

	aligned := format.Align8Ptr(n + headerSize)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[HEAP] alloc request: %d bytes, %d aligned with header (%s)\n",
			n, aligned, h.strategy)
	}

	if b := h.findFit(aligned); b != nil {
		h.stats.ReuseHits++
		h.split(b, aligned)
		b.free = false
		if name == "" {
			name = h.nextLabel()
		}
		b.setLabel(name)
		h.scribbleFill(b)
		return b.payload(), nil
	}

	// List miss: back the request with a new region.
	b, err := h.mapRegion(aligned)
	if err != nil {
		return nil, err
	}
	if name != "" {
		b.setLabel(name)
	}

	if h.head == nil {
		h.head = b
		h.tail = b
	} else {
		h.tail.next = b
		b.prev = h.tail
		h.tail = b
	}

	if h.split(b, aligned) == nil {
		// Remainder would be below the minimum block size; the request
		// keeps the whole region.
		b.free = false
	}
	h.scribbleFill(b)
	return b.payload(), nil
}

// release is the unguarded deallocation path. The caller must hold h.mu.
func (h *Heap) release(p unsafe.Pointer) {
	if p == nil {
		return
	}
	h.stats.FreeCalls++

	b := blockOf(p)
	b.free = true
	b = h.coalesce(b)

	// Coalescing may have absorbed the old tail.
	if b.next == nil {
		h.tail = b
	}

	// The block's region is reclaimable when every list neighbor (if any)
	// belongs to a foreign region: coalescing already guarantees that a
	// same-region neighbor still present must be live.
	unmap := false
	switch {
	case b.prev == nil && b.next == nil:
		// Sole block overall; the list empties.
		h.head = nil
		h.tail = nil
		unmap = true
	case b.prev != nil && b.next != nil:
		if !sameRegion(b.prev, b) && !sameRegion(b.next, b) {
			b.prev.next = b.next
			b.next.prev = b.prev
			unmap = true
		}
	case b.prev != nil:
		if !sameRegion(b.prev, b) {
			b.prev.next = nil
			h.tail = b.prev
			unmap = true
		}
	default: // b.prev == nil, b.next != nil
		if !sameRegion(b.next, b) {
			b.next.prev = nil
			h.head = b.next
			unmap = true
		}
	}

	if unmap {
		h.unmapRegion(b)
	}
}

// scribbleFill overwrites a block's payload with the poison pattern so
// reads of uninitialized memory surface during debugging.
func (h *Heap) scribbleFill(b *block) {
	if !h.scribble {
		return
	}
	p := b.payloadBytes()
	for i := range p {
		p[i] = format.PoisonByte
	}
}

// nextLabel produces the default debug label for a newly created block.
func (h *Heap) nextLabel() string {
	l := fmt.Sprintf("Allocation %d", h.allocs)
	h.allocs++
	return l
}
