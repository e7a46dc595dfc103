package format

// Alignment utilities for the allocator. Block sizes and payload addresses
// must stay on 8-byte boundaries; regions are whole multiples of the OS
// page size.

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) &^ AlignmentMask
}

// Align8Ptr is Align8 for uintptr arithmetic in the unsafe boundary.
func Align8Ptr(n uintptr) uintptr {
	return (n + AlignmentMask) &^ AlignmentMask
}

// PagesFor returns the number of whole pages of size page needed to cover
// n bytes. page must be a page size reported by the OS.
//
// Example (4KB pages):
//
//	PagesFor(1, 4096)    = 1
//	PagesFor(4096, 4096) = 1
//	PagesFor(4097, 4096) = 2
func PagesFor(n, page uintptr) uintptr {
	return (n + page - 1) / page
}
