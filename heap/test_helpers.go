package heap

import (
	"fmt"
	"testing"
	"unsafe"
)

// ============================================================================
// Synthetic list builders
// ============================================================================

// blockSpec describes one hand-built block for the synthetic helpers.
type blockSpec struct {
	size   uintptr
	free   bool
	region uint64
}

// newListHeap builds a Heap whose list is a hand-built chain of headers,
// each backed by its own Go-allocated buffer. Addresses are not
// contiguous, so this is only for exercising read-only traversals (the
// fit strategies) and cross-region cases; sizes smaller than the header
// are allowed so the free-space contract can be tested with its exact
// scenarios.
//
// The returned buffers must stay referenced for the Heap's lifetime.
func newListHeap(t *testing.T, specs []blockSpec) (*Heap, [][]byte) {
	t.Helper()

	h := New()
	bufs := make([][]byte, 0, len(specs))

	var prev *block
	for i, sp := range specs {
		n := sp.size
		if n < headerSize {
			n = headerSize
		}
		buf := make([]byte, n)
		bufs = append(bufs, buf)

		b := (*block)(unsafe.Pointer(&buf[0]))
		b.size = sp.size
		b.free = sp.free
		b.regionID = sp.region
		b.setLabel(fmt.Sprintf("test %d", i))
		b.prev = prev
		b.next = nil

		if prev == nil {
			h.head = b
		} else {
			prev.next = b
		}
		h.tail = b
		prev = b
	}
	return h, bufs
}

// newArenaHeap carves one contiguous Go-allocated buffer into consecutive
// blocks of the given sizes, mirroring a single mapped region (region id
// 0). Sizes must be 8-byte multiples of at least headerSize so the
// carved headers do not overlap. Used by the split and coalesce tests,
// which depend on real address contiguity.
func newArenaHeap(t *testing.T, sizes []uintptr, free []bool) (*Heap, []byte) {
	t.Helper()

	var total uintptr
	for _, s := range sizes {
		if s < headerSize || s%8 != 0 {
			t.Fatalf("arena block size %d must be an 8-byte multiple >= header size %d", s, headerSize)
		}
		total += s
	}

	h := New()
	buf := make([]byte, total)

	var off uintptr
	var prev *block
	for i, s := range sizes {
		b := (*block)(unsafe.Pointer(&buf[off]))
		b.size = s
		b.free = free[i]
		b.regionID = 0
		b.setLabel(fmt.Sprintf("arena %d", i))
		b.prev = prev
		b.next = nil

		if prev == nil {
			h.head = b
		} else {
			prev.next = b
		}
		h.tail = b
		prev = b
		off += s
	}
	h.regions = 1
	return h, buf
}

// listBlocks walks the heap's list and returns the blocks in order.
func listBlocks(h *Heap) []*block {
	var out []*block
	for b := h.head; b != nil; b = b.next {
		out = append(out, b)
	}
	return out
}

// listSizes walks the heap's list and returns the block sizes in order.
func listSizes(h *Heap) []uintptr {
	var out []uintptr
	for b := h.head; b != nil; b = b.next {
		out = append(out, b.size)
	}
	return out
}
