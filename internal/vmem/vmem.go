// Package vmem obtains anonymous, page-aligned memory directly from the
// operating system.
//
// The heap package carves these mappings into blocks; nothing in this
// package knows about blocks, headers, or free lists. Mappings are
// private, readable, writable, and zero-filled by the kernel.
package vmem
