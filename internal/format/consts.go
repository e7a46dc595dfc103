package format

// Layout constants for the block allocator.
//
// Every block in the heap is 8-byte aligned and carries a fixed header in
// front of its payload. The constants live here so the numbers exist in
// exactly one place, shared between the heap package and its tests.

const (
	// BlockAlignment is the required alignment of every block size and
	// every payload address, in bytes.
	BlockAlignment = 8

	// AlignmentMask is BlockAlignment-1, used by the align helpers.
	AlignmentMask = BlockAlignment - 1

	// MinBlockBytes is the minimum total size (header included) a block may
	// have after a split. Splits that would leave either piece below this
	// floor are refused, preventing slivers too small to ever hold a useful
	// payload plus their own header.
	MinBlockBytes = 100

	// NameBytes is the fixed width of the per-block debug label.
	NameBytes = 32

	// PoisonByte is the scribble pattern written over newly handed-out
	// payload bytes when poison fill is enabled. 0xAA (0b10101010) makes
	// reads of uninitialized memory easy to spot in a debugger.
	PoisonByte = 0xAA
)
