package heap

import (
	"unsafe"

	"github.com/memkit/memkit/internal/format"
)

// block is the per-allocation bookkeeping record, stored in the managed
// memory itself immediately before the payload it describes. All raw
// pointer arithmetic is confined to this file; everything above it
// (search, split, coalesce, release decisions) operates on header values.
//
// The successor of a block in the same region begins exactly size bytes
// after the block's own start address. Blocks from different regions are
// adjacent in the list but not in memory.
type block struct {
	size     uintptr // total bytes covered, header included; multiple of 8
	regionID uint64  // mapping this block was carved from
	prev     *block
	next     *block
	name     [format.NameBytes]byte // debug label, NUL-padded
	free     bool
}

// headerSize is the number of bytes each block spends on its own header.
// The compiler pads the struct to an 8-byte multiple, which keeps payload
// addresses aligned; TestHeaderLayout pins this down.
const headerSize = unsafe.Sizeof(block{})

// start returns the block's base address.
func (b *block) start() uintptr {
	return uintptr(unsafe.Pointer(b))
}

// end returns the address one past the block's last byte.
func (b *block) end() uintptr {
	return b.start() + b.size
}

// payload returns the address of the usable bytes just past the header.
// This is the pointer handed to callers.
func (b *block) payload() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(b), headerSize)
}

// payloadSize returns the number of usable bytes the block carries.
func (b *block) payloadSize() uintptr {
	return b.size - headerSize
}

// payloadBytes exposes the usable bytes as a slice over the managed memory.
func (b *block) payloadBytes() []byte {
	return unsafe.Slice((*byte)(b.payload()), b.payloadSize())
}

// blockOf recovers the header from a payload pointer previously handed
// out by the allocator. Passing any other pointer is undefined behavior.
func blockOf(p unsafe.Pointer) *block {
	return (*block)(unsafe.Add(p, -int(headerSize)))
}

// sameRegion reports whether two blocks were carved from the same mapping.
func sameRegion(a, b *block) bool {
	return a.regionID == b.regionID
}

// setLabel stores a debug label, truncated to NameBytes and NUL-padded.
func (b *block) setLabel(s string) {
	n := copy(b.name[:], s)
	for i := n; i < len(b.name); i++ {
		b.name[i] = 0
	}
}

// label returns the debug label without its NUL padding.
func (b *block) label() string {
	for i, c := range b.name[:] {
		if c == 0 {
			return string(b.name[:i])
		}
	}
	return string(b.name[:])
}
