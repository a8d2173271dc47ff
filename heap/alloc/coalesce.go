package alloc

// coalesce merges the free block at b with whichever of its immediate
// neighbors are free, rewriting the boundary tags over the combined span and
// unlinking absorbed neighbors from their free lists. It returns the merged
// block, which the caller must insert into a free list.
//
// The prologue and epilogue are permanently allocated, so the neighbor reads
// never walk past the heap bounds. Postcondition: the returned block's
// neighbors are both allocated.
func (h *Heap) coalesce(b int32) int32 {
	data := h.r.Bytes()
	prev := prevBlock(data, b)
	next := nextBlock(data, b)
	prevAlloc := isAllocated(data, prev)
	nextAlloc := isAllocated(data, next)
	size := sizeOf(data, b)

	switch {
	case prevAlloc && nextAlloc:
		h.stats.CoalesceNone++

	case prevAlloc && !nextAlloc:
		h.removeFree(next)
		size += sizeOf(data, next)
		writeHeader(data, b, size, false)
		writeFooter(data, b, size, false)
		h.stats.CoalesceForward++

	case !prevAlloc && nextAlloc:
		h.removeFree(prev)
		size += sizeOf(data, prev)
		writeHeader(data, prev, size, false)
		writeFooter(data, prev, size, false)
		b = prev
		h.stats.CoalesceBackward++

	default:
		h.removeFree(prev)
		h.removeFree(next)
		size += sizeOf(data, prev) + sizeOf(data, next)
		writeHeader(data, prev, size, false)
		writeFooter(data, prev, size, false)
		b = prev
		h.stats.CoalesceBoth++
	}

	return b
}
