package alloc

import (
	"errors"
	"fmt"
	"os"

	"github.com/dkellner/heapkit/internal/buf"
)

// Ref is a payload reference: the arena offset of a block's payload. It is
// what Alloc hands out and what Free, Realloc and Payload take back.
type Ref = int32

// NilRef is the null reference. No allocation ever has payload offset 0;
// the bottom of the arena belongs to the bucket sentinels.
const NilRef Ref = 0

const (
	// prologueSize is the permanently allocated block below the first real
	// block; its footer stops backward coalescing.
	prologueSize = minBlockSize

	// epilogueSize is the zero-size allocated header above the last real
	// block (header word plus a pad word, keeping the growth arithmetic on
	// 16-byte boundaries). Relocated on every extension.
	epilogueSize = headSize

	// bootSize is the initial reservation: bucket sentinels, alignment
	// pad, prologue, epilogue.
	bootSize = seglistSize + seglistPad + prologueSize + epilogueSize
)

// logAlloc enables extension logging to stderr.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

// Region is the growth primitive the allocator consumes. heap.Region
// implements it; tests substitute fakes to exercise exhaustion paths.
type Region interface {
	// Bytes returns the region's memory up to the current break.
	Bytes() []byte

	// Extend grows the region by n bytes, returning the old break. On
	// failure the break must be unchanged.
	Extend(n int32) (int32, error)

	// Size returns the current break, the region's high address.
	Size() int32
}

// Heap is one allocator instance over one region. Not thread-safe; see the
// package documentation.
type Heap struct {
	r   Region
	cfg Config

	base     int32 // region offset of the bucket sentinels
	prologue int32 // offset of the prologue block

	stats Stats
}

// New bootstraps a heap on a region: it formats the bucket sentinels, the
// prologue and the epilogue at the region's current break, then performs the
// first extension. The region's break must be 16-byte aligned (a fresh
// region always is).
func New(r Region, cfg *Config) (*Heap, error) {
	if r == nil {
		return nil, errors.New("alloc: nil region")
	}
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	c.ChunkSize = int32(roundUp(int64(c.ChunkSize), int64(alignSize)))
	if c.Diag == nil {
		c.Diag = os.Stderr
	}

	// Reject a misaligned break before touching the region, so a failed
	// bootstrap leaves it exactly as handed in.
	if r.Size()%alignSize != 0 {
		return nil, ErrBadRegion
	}
	base, err := r.Extend(bootSize)
	if err != nil {
		return nil, fmt.Errorf("alloc: bootstrap reservation: %w", err)
	}

	h := &Heap{r: r, cfg: c, base: base}
	h.prologue = base + seglistSize + seglistPad
	h.initSeglist()

	data := r.Bytes()
	writeHeader(data, h.prologue, prologueSize, true)
	writeFooter(data, h.prologue, prologueSize, true)
	writeHeader(data, h.prologue+prologueSize, 0, true)

	if _, err := h.extendHeap(c.ChunkSize); err != nil {
		return nil, fmt.Errorf("alloc: initial extension: %w", err)
	}
	return h, nil
}

// epilogueOff derives the current epilogue position from the region's high
// address.
func (h *Heap) epilogueOff() int32 {
	return h.r.Size() - epilogueSize
}

// firstBlock is the first real block, immediately after the prologue.
func (h *Heap) firstBlock() int32 {
	return h.prologue + prologueSize
}

// Alloc allocates a block with at least size usable payload bytes and
// returns its reference together with a writable view of the payload. The
// view stays valid until the block is freed. Alloc(0) returns NilRef with no
// heap mutation.
func (h *Heap) Alloc(size int32) (Ref, []byte, error) {
	if h.cfg.Verify {
		h.CheckHeap("Alloc:enter")
		defer h.CheckHeap("Alloc:exit")
	}
	h.stats.AllocCalls++

	if size < 0 {
		return NilRef, nil, ErrBadSize
	}
	if size == 0 {
		return NilRef, nil, nil
	}
	asize, ok := adjustSize(size)
	if !ok {
		return NilRef, nil, ErrSizeOverflow
	}

	b, found := h.findFit(asize)
	if !found {
		if _, err := h.extendHeap(maxI32(asize, h.cfg.ChunkSize)); err != nil {
			return NilRef, nil, err
		}
		b, found = h.findFit(asize)
		if !found {
			return NilRef, nil, ErrNoSpace
		}
		h.stats.SlowPath++
	} else {
		h.stats.FastPath++
	}

	got := h.place(b, asize)
	ref := payloadOf(b)
	data := h.r.Bytes()
	return ref, data[ref : ref+payloadSize(got)], nil
}

// Free releases an allocated block, coalesces it with any free neighbors and
// returns the merged block to its size class. Free(NilRef) is a no-op.
func (h *Heap) Free(ref Ref) error {
	if h.cfg.Verify {
		h.CheckHeap("Free:enter")
		defer h.CheckHeap("Free:exit")
	}
	h.stats.FreeCalls++

	if ref == NilRef {
		return nil
	}
	b, err := h.blockFromRef(ref)
	if err != nil {
		return err
	}

	data := h.r.Bytes()
	size := sizeOf(data, b)
	writeHeader(data, b, size, false)
	writeFooter(data, b, size, false)
	h.stats.BytesFreed += int64(size)
	h.stats.InUse -= int64(size)

	h.insertFree(h.coalesce(b))
	return nil
}

// Realloc resizes an allocation. Shrinking happens in place, splitting off
// and freeing the remainder when it forms a legal block; growing allocates a
// new block, copies min(old payload, size) bytes and frees the old block. On
// allocation failure the original block is left completely unmodified.
// Realloc(NilRef, size) behaves as Alloc(size); Realloc(ref, 0) behaves as
// Free(ref) and returns NilRef.
func (h *Heap) Realloc(ref Ref, size int32) (Ref, []byte, error) {
	if h.cfg.Verify {
		h.CheckHeap("Realloc:enter")
		defer h.CheckHeap("Realloc:exit")
	}
	h.stats.ReallocCalls++

	if size < 0 {
		return NilRef, nil, ErrBadSize
	}
	if ref == NilRef {
		return h.Alloc(size)
	}
	if size == 0 {
		return NilRef, nil, h.Free(ref)
	}

	b, err := h.blockFromRef(ref)
	if err != nil {
		return NilRef, nil, err
	}
	asize, ok := adjustSize(size)
	if !ok {
		return NilRef, nil, ErrSizeOverflow
	}

	data := h.r.Bytes()
	oldSize := sizeOf(data, b)

	if oldSize >= asize {
		// Shrink in place, no copy. The tail is coalesced so a free
		// right neighbor cannot end up adjacent to another free block.
		if oldSize-asize >= minBlockSize {
			writeHeader(data, b, asize, true)
			writeFooter(data, b, asize, true)
			tail := b + asize
			writeHeader(data, tail, oldSize-asize, false)
			writeFooter(data, tail, oldSize-asize, false)
			h.stats.Splits++
			h.stats.BytesFreed += int64(oldSize - asize)
			h.stats.InUse -= int64(oldSize - asize)
			h.insertFree(h.coalesce(tail))
			oldSize = asize
		}
		return ref, data[ref : ref+payloadSize(oldSize)], nil
	}

	newRef, newPayload, err := h.Alloc(size)
	if err != nil {
		return NilRef, nil, err
	}
	n := payloadSize(oldSize)
	if size < n {
		n = size
	}
	data = h.r.Bytes()
	copy(newPayload[:n], data[ref:ref+n])
	if err := h.Free(ref); err != nil {
		return NilRef, nil, err
	}
	return newRef, newPayload, nil
}

// Calloc allocates a zero-filled block of n*size bytes. The multiplication
// is overflow-checked; an overflowing request fails without allocating.
func (h *Heap) Calloc(n, size int32) (Ref, []byte, error) {
	h.stats.CallocCalls++

	if n < 0 || size < 0 {
		return NilRef, nil, ErrBadSize
	}
	total, ok := buf.MulOverflowSafe(int(n), int(size))
	if !ok || total > int(maxBlockSize) {
		return NilRef, nil, ErrSizeOverflow
	}

	ref, p, err := h.Alloc(int32(total))
	if err != nil || ref == NilRef {
		return ref, p, err
	}
	clear(p[:total])
	return ref, p, nil
}

// Payload returns the live payload view for an allocated block.
func (h *Heap) Payload(ref Ref) ([]byte, error) {
	b, err := h.blockFromRef(ref)
	if err != nil {
		return nil, err
	}
	data := h.r.Bytes()
	return data[ref : ref+payloadSize(sizeOf(data, b))], nil
}

// findFit scans the free lists from the request's own size class upward,
// first-fit within each bucket, and returns the first block large enough.
func (h *Heap) findFit(asize int32) (int32, bool) {
	data := h.r.Bytes()
	for idx := bucketFor(asize); idx < numClasses; idx++ {
		head := h.sentinel(idx)
		for b := succOf(data, head); b != head; b = succOf(data, b) {
			if sizeOf(data, b) >= asize {
				return b, true
			}
		}
	}
	return 0, false
}

// place removes the block from its free list and marks asize bytes of it
// allocated. When the leftover is big enough to stand alone it is split off
// as a free tail; otherwise the whole block is allocated, absorbing the
// sliver as internal fragmentation. Returns the final allocated size.
func (h *Heap) place(b, asize int32) int32 {
	data := h.r.Bytes()
	csize := sizeOf(data, b)
	h.removeFree(b)

	if csize-asize >= minBlockSize {
		writeHeader(data, b, asize, true)
		writeFooter(data, b, asize, true)
		tail := b + asize
		writeHeader(data, tail, csize-asize, false)
		writeFooter(data, tail, csize-asize, false)
		h.insertFree(tail)
		h.stats.Splits++
		csize = asize
	} else {
		writeHeader(data, b, csize, true)
		writeFooter(data, b, csize, true)
	}

	h.stats.BytesAllocated += int64(csize)
	h.stats.InUse += int64(csize)
	if h.stats.InUse > h.stats.PeakInUse {
		h.stats.PeakInUse = h.stats.InUse
	}
	return csize
}

// blockFromRef validates a client reference and returns its block offset.
// This catches out-of-range, misaligned and double-free references; anything
// subtler (a stale reference that happens to hit a live block) remains the
// client's contract to uphold.
func (h *Heap) blockFromRef(ref Ref) (int32, error) {
	if ref%alignSize != 0 {
		return 0, ErrBadRef
	}
	b := blockOf(ref)
	epi := h.epilogueOff()
	if b < h.firstBlock() || b >= epi {
		return 0, ErrBadRef
	}
	data := h.r.Bytes()
	size := sizeOf(data, b)
	if size < minBlockSize || size%alignSize != 0 || b+size > epi {
		return 0, ErrBadRef
	}
	if !isAllocated(data, b) {
		return 0, ErrNotAllocated
	}
	return b, nil
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
