package heap

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/memkit/memkit/internal/format"
	"github.com/memkit/memkit/internal/vmem"
)

// mapRegion asks the OS for enough whole pages to cover need bytes and
// initializes the mapping as one free block carrying a fresh region id.
// The block is not yet linked into the list; the caller appends it. The
// caller must hold the lock.
func (h *Heap) mapRegion(need uintptr) (*block, error) {
	pages := format.PagesFor(need, h.pageSize)
	regionSize := pages * h.pageSize

	mem, err := vmem.Map(int(regionSize))
	if err != nil {
		return nil, fmt.Errorf("%w: mapping %d pages: %v", ErrNoMemory, pages, err)
	}

	b := (*block)(unsafe.Pointer(&mem[0]))
	b.size = regionSize
	b.free = true
	b.regionID = h.regions
	b.prev = nil
	b.next = nil
	b.setLabel(h.nextLabel())
	h.regions++

	h.stats.RegionsMapped++
	h.stats.BytesMapped += uint64(regionSize)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[HEAP] mapped region %d: %d pages, %d bytes at 0x%x\n",
			b.regionID, pages, regionSize, b.start())
	}
	return b, nil
}

// unmapRegion returns the whole mapping backing b to the OS. b must span
// its entire region and must already be unlinked from the list.
//
// An unmap failure is reported and otherwise ignored: the list bookkeeping
// has already moved on, so the pages are leaked at the OS level rather
// than risking a half-rolled-back list.
func (h *Heap) unmapRegion(b *block) {
	id, size := b.regionID, b.size

	mem := unsafe.Slice((*byte)(unsafe.Pointer(b)), size)
	if err := vmem.Unmap(mem); err != nil {
		fmt.Fprintf(os.Stderr, "heap: munmap region %d (%d bytes): %v\n", id, size, err)
		return
	}

	h.stats.RegionsUnmapped++
	h.stats.BytesUnmapped += uint64(size)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[HEAP] unmapped region %d: %d bytes\n", id, size)
	}
}
