package mmap

import "errors"

var (
	// ErrClosed is returned by reads on a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrTooLarge is returned for files that do not fit the address space.
	ErrTooLarge = errors.New("mmap: file too large to map")
	// ErrInvalidOffset is returned by ReadAt for negative offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
