package malloc

import (
	"github.com/dkellner/heapkit/heap"
	"github.com/dkellner/heapkit/heap/alloc"
)

// Options controls heap construction. The zero value (or a nil pointer)
// selects sensible defaults.
type Options struct {
	// MaxBytes caps how large the backing region may grow.
	// Zero selects heap.DefaultMax.
	MaxBytes int64

	// ChunkSize is the minimum extension granularity.
	// Zero selects alloc.DefaultChunkSize.
	ChunkSize int32

	// Verify runs a full consistency check around every operation.
	// Intended for tests only.
	Verify bool
}

// Heap is a self-contained allocator: it owns its backing region and
// releases it on Close. Not safe for concurrent use.
type Heap struct {
	r *heap.Region
	a *alloc.Heap
}

// Ptr names a live allocation within a Heap. The zero Ptr is nil.
type Ptr struct {
	h   *Heap
	ref alloc.Ref
}

// IsNil reports whether p names no allocation.
func (p Ptr) IsNil() bool { return p.ref == alloc.NilRef }

// Bytes returns the allocation's payload. The slice stays valid until
// the pointer is freed or realloc'd, even as the heap grows.
func (p Ptr) Bytes() []byte {
	if p.IsNil() {
		return nil
	}
	b, err := p.h.a.Payload(p.ref)
	if err != nil {
		return nil
	}
	return b
}

// New creates a heap backed by a fresh region.
//
// Example:
//
//	h, err := malloc.New(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
func New(opts *Options) (*Heap, error) {
	if opts == nil {
		opts = &Options{}
	}
	r, err := heap.NewRegion(opts.MaxBytes)
	if err != nil {
		return nil, err
	}
	cfg := alloc.DefaultConfig
	cfg.ChunkSize = opts.ChunkSize
	cfg.Verify = opts.Verify
	a, err := alloc.New(r, &cfg)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &Heap{r: r, a: a}, nil
}

// Malloc allocates size bytes and returns a pointer to them.
// A size of zero returns a nil pointer and no error.
func (h *Heap) Malloc(size int32) (Ptr, error) {
	ref, _, err := h.a.Alloc(size)
	if err != nil {
		return Ptr{}, err
	}
	return Ptr{h: h, ref: ref}, nil
}

// Free releases an allocation. Freeing a nil pointer is a no-op.
func (h *Heap) Free(p Ptr) error {
	return h.a.Free(p.ref)
}

// Realloc resizes an allocation, preserving the surviving prefix of its
// contents. Realloc of a nil pointer allocates; realloc to zero frees.
// On failure the original allocation is untouched and still valid.
func (h *Heap) Realloc(p Ptr, size int32) (Ptr, error) {
	ref, _, err := h.a.Realloc(p.ref, size)
	if err != nil {
		return p, err
	}
	return Ptr{h: h, ref: ref}, nil
}

// Calloc allocates a zeroed array of n elements of the given size,
// failing cleanly if n*size overflows.
func (h *Heap) Calloc(n, size int32) (Ptr, error) {
	ref, _, err := h.a.Calloc(n, size)
	if err != nil {
		return Ptr{}, err
	}
	return Ptr{h: h, ref: ref}, nil
}

// Check runs a full heap consistency audit and reports whether it passed.
// Findings are written to the allocator's diagnostic writer.
func (h *Heap) Check() bool {
	return h.a.CheckHeap("malloc")
}

// Stats returns a snapshot of allocator counters.
func (h *Heap) Stats() alloc.Stats {
	return h.a.Stats()
}

// Size returns the current heap extent in bytes.
func (h *Heap) Size() int64 {
	return int64(h.a.HeapSize())
}

// Close releases the backing region. The heap and every pointer into it
// are invalid afterwards. Close is idempotent.
func (h *Heap) Close() error {
	return h.r.Close()
}
