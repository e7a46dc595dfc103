package heap

import (
	"fmt"
	"io"
	"os"
)

// Dump writes a human-readable report of every region and block to w, in
// list order (ascending address). One header line opens each region,
// followed by one line per block:
//
//	[REGION 0] 0x7f2a81c00000
//	  [BLOCK] 0x7f2a81c00000-0x7f2a81c00068 'Allocation 0' 104 [USED]
//	  [BLOCK] 0x7f2a81c00068-0x7f2a81c01000 'Allocation 1' 3992 [FREE]
//
// Read-only: Dump takes the lock for a consistent snapshot but mutates
// nothing.
func (h *Heap) Dump(w io.Writer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var region uint64
	first := true
	for b := h.head; b != nil; b = b.next {
		if first || b.regionID != region {
			region = b.regionID
			first = false
			if _, err := fmt.Fprintf(w, "[REGION %d] 0x%x\n", region, b.start()); err != nil {
				return err
			}
		}

		state := "USED"
		if b.free {
			state = "FREE"
		}
		if _, err := fmt.Fprintf(w, "  [BLOCK] 0x%x-0x%x '%s' %d [%s]\n",
			b.start(), b.end(), b.label(), b.size, state); err != nil {
			return err
		}
	}
	return nil
}

// DumpState prints the report to standard output.
func (h *Heap) DumpState() {
	h.Dump(os.Stdout) //nolint:errcheck // best-effort diagnostics
}
