package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block large enough was found and the
	// region refused to grow.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadRef indicates an invalid or out-of-bounds block reference.
	ErrBadRef = errors.New("alloc: bad block reference")

	// ErrNotAllocated indicates an attempt to free or resize a block that is
	// not currently allocated (typically a double free).
	ErrNotAllocated = errors.New("alloc: block is not allocated")

	// ErrBadSize indicates a negative allocation size.
	ErrBadSize = errors.New("alloc: size must be non-negative")

	// ErrSizeOverflow indicates a size computation that overflows the
	// addressable heap (oversized request or count*size overflow).
	ErrSizeOverflow = errors.New("alloc: size computation overflows")

	// ErrBadRegion indicates a region whose break is not aligned for heap
	// bootstrap.
	ErrBadRegion = errors.New("alloc: region break is not 16-byte aligned")
)
