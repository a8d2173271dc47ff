/*
Package malloc provides a high-level, ergonomic API for dynamic heap allocation.

# Quick Start

Create a heap and allocate from it:

	h, err := malloc.New(nil)
	if err != nil {
	    log.Fatal(err)
	}
	defer h.Close()

	p, err := h.Malloc(128)

# Features

  - Simple malloc/free/realloc/calloc surface
  - Automatic region management (grab memory, release on Close)
  - Segregated free lists with constant-time frees
  - Built-in heap consistency checking
  - Allocation statistics

# Basic Usage

Allocate, use, and release a buffer:

	p, err := h.Malloc(256)
	if err != nil {
	    log.Fatal(err)
	}
	copy(p.Bytes(), payload)
	h.Free(p)

Grow a buffer while preserving its contents:

	p, err = h.Realloc(p, 1024)

Zeroed array allocation with overflow checking:

	p, err := h.Calloc(count, recordSize)

# Options

Control region size and debugging behavior:

	h, err := malloc.New(&malloc.Options{
	    MaxBytes:  32 << 20,
	    ChunkSize: 1 << 16,
	    Verify:    true,
	})

Verify mode runs a full consistency check around every operation and is
intended for tests; it is far too slow for production use.

# Advanced Usage

For fine-grained control over the backing region, use the low-level API:

	import (
	    "github.com/dkellner/heapkit/heap"
	    "github.com/dkellner/heapkit/heap/alloc"
	)

	r, _ := heap.NewRegion(64 << 20)
	defer r.Close()

	a, _ := alloc.New(r, &alloc.Config{ChunkSize: 1 << 14})
	ref, buf, _ := a.Alloc(512)
*/
package malloc
