//go:build linux || darwin || freebsd

package vmem

import (
	"golang.org/x/sys/unix"
)

// PageSize returns the OS page size in bytes.
func PageSize() int {
	return unix.Getpagesize()
}

// Map obtains length bytes of anonymous memory from the OS as one private
// mapping. length should be a whole multiple of PageSize; the kernel
// rounds up internally either way. The returned slice covers the entire
// mapping and is zero-filled.
func Map(length int) ([]byte, error) {
	return unix.Mmap(
		-1, 0,
		length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
}

// Unmap releases a mapping previously returned by Map. The slice must
// cover the entire mapping, exactly as returned.
func Unmap(mem []byte) error {
	return unix.Munmap(mem)
}
