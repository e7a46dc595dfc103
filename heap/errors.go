package heap

import "errors"

var (
	// ErrNoMemory indicates the OS refused to back a new region. No
	// partial state is committed when this is returned.
	ErrNoMemory = errors.New("heap: no memory")

	// ErrBadSize indicates a negative size request, or a count*size
	// multiplication that overflows in AllocZero.
	ErrBadSize = errors.New("heap: bad size")
)
