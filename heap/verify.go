package heap

import (
	"errors"
	"fmt"

	"github.com/memkit/memkit/internal/format"
)

// Check audits the structural invariants of the block list and reports
// every violation found, joined into one error (nil when the heap is
// consistent). It holds the lock for a full traversal, so it is meant for
// tests and debugging rather than hot paths.
//
// Audited invariants:
//
//  1. head and tail are both nil or both set; head has no predecessor and
//     tail no successor.
//  2. prev/next links are symmetric.
//  3. within a region, every block starts exactly where its predecessor
//     ends (contiguity).
//  4. no two adjacent blocks of the same region are both free.
//  5. every block size is 8-byte aligned and at least the header size.
func (h *Heap) Check() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error

	if (h.head == nil) != (h.tail == nil) {
		errs = append(errs, fmt.Errorf("heap: half-empty list: head nil=%v, tail nil=%v",
			h.head == nil, h.tail == nil))
	}
	if h.head != nil && h.head.prev != nil {
		errs = append(errs, errors.New("heap: head has a predecessor"))
	}
	if h.tail != nil && h.tail.next != nil {
		errs = append(errs, errors.New("heap: tail has a successor"))
	}

	for b := h.head; b != nil; b = b.next {
		if b.size%format.BlockAlignment != 0 {
			errs = append(errs, fmt.Errorf("heap: block 0x%x size %d not 8-byte aligned",
				b.start(), b.size))
		}
		if b.size < headerSize {
			errs = append(errs, fmt.Errorf("heap: block 0x%x size %d below header size",
				b.start(), b.size))
		}

		n := b.next
		if n == nil {
			if b != h.tail {
				errs = append(errs, fmt.Errorf("heap: list ends at 0x%x, not at tail", b.start()))
			}
			continue
		}
		if n.prev != b {
			errs = append(errs, fmt.Errorf("heap: asymmetric link at 0x%x", b.start()))
		}
		if sameRegion(b, n) {
			if n.start() != b.end() {
				errs = append(errs, fmt.Errorf("heap: region %d gap between 0x%x and 0x%x",
					b.regionID, b.end(), n.start()))
			}
			if b.free && n.free {
				errs = append(errs, fmt.Errorf("heap: adjacent free blocks in region %d at 0x%x",
					b.regionID, b.start()))
			}
		}
	}

	return errors.Join(errs...)
}
