package alloc

import (
	"fmt"
	"os"
)

// extendHeap grows the heap by at least minBytes (rounded to the block
// alignment). The fresh memory is formatted as one free block overwriting
// the old epilogue, a new epilogue is written at the top, and the block is
// coalesced with a free block that may have ended at the old epilogue. The
// merged result is inserted into its size class and returned.
//
// A refused extension propagates the region's error and leaves every
// existing block untouched.
func (h *Heap) extendHeap(minBytes int32) (int32, error) {
	size := int32(roundUp(int64(minBytes), int64(alignSize)))

	old, err := h.r.Extend(size)
	if err != nil {
		return 0, fmt.Errorf("alloc: extend %d bytes: %w", size, err)
	}
	h.stats.ExtendCalls++
	h.stats.ExtendBytes += int64(size)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[EXTEND] +%d bytes, break %d -> %d\n", size, old, old+size)
	}

	// The new block starts where the old epilogue header sat; the new
	// epilogue's 8 bytes land exactly at the new break.
	data := h.r.Bytes()
	b := old - epilogueSize
	writeHeader(data, b, size, false)
	writeFooter(data, b, size, false)
	writeHeader(data, b+size, 0, true)

	merged := h.coalesce(b)
	h.insertFree(merged)
	return merged, nil
}
