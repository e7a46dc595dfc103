package heap

import (
	"unsafe"

	"github.com/memkit/memkit/internal/format"
)

// split carves b into an in-use prefix of exactly size bytes and a free
// remainder beginning size bytes into b. The remainder inherits b's
// region and is linked into the list immediately after b, preserving
// address order. On success the prefix is marked in use and the remainder
// is returned; nil means the split was refused and b is untouched.
//
// Refusal policy: b must be free, at least MinBlockBytes large, and big
// enough that the remainder also stays at or above MinBlockBytes. The
// floor prevents producing a block too small to ever hold a payload plus
// its own header. The caller must hold the lock.
func (h *Heap) split(b *block, size uintptr) *block {
	if !b.free || b.size < format.MinBlockBytes ||
		b.size < size || b.size-size < format.MinBlockBytes {
		return nil
	}

	rem := (*block)(unsafe.Add(unsafe.Pointer(b), size))
	rem.size = b.size - size
	rem.free = true
	rem.regionID = b.regionID
	rem.setLabel(h.nextLabel())

	if b == h.tail {
		rem.next = nil
		rem.prev = b
		b.next = rem
		h.tail = rem
	} else {
		rem.prev = b
		rem.next = b.next
		b.next.prev = rem
		b.next = rem
	}

	b.size = size
	b.free = false

	h.stats.Splits++
	return rem
}

// coalesce merges a just-freed block with its immediate neighbors when
// they are free and share b's region, and returns the surviving block.
// Merging never crosses a region boundary: a free block adjacent in the
// list to a block of a different region stays distinct, because that
// boundary marks the edge of an independent OS mapping.
//
// Afterwards no two adjacent blocks of b's region are both free. The
// caller must hold the lock and re-derive head/tail if the old tail was
// absorbed.
func (h *Heap) coalesce(b *block) *block {
	if p := b.prev; p != nil && p.free && sameRegion(p, b) {
		p.size += b.size
		p.next = b.next
		if b.next != nil {
			b.next.prev = p
		}
		b = p
		h.stats.MergesBackward++
	}

	if n := b.next; n != nil && n.free && sameRegion(n, b) {
		b.size += n.size
		b.next = n.next
		if n.next != nil {
			n.next.prev = b
		}
		h.stats.MergesForward++
	}

	return b
}
