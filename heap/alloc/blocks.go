package alloc

// BlockInfo describes one heap block for inspection and dump tooling.
type BlockInfo struct {
	Off       int32 // block start offset in the arena
	Size      int32 // block size, boundary tags included
	Allocated bool
}

// Blocks returns every real block between the prologue and the epilogue in
// address order. The walk stops early if it hits a corrupt size, so it is
// safe to call on a damaged heap (CheckHeap reports the damage itself).
func (h *Heap) Blocks() []BlockInfo {
	data := h.r.Bytes()
	epi := h.epilogueOff()

	var out []BlockInfo
	for b := h.firstBlock(); b != epi; b = nextBlock(data, b) {
		size := sizeOf(data, b)
		if size < minBlockSize || b+size > epi {
			break
		}
		out = append(out, BlockInfo{Off: b, Size: size, Allocated: isAllocated(data, b)})
	}
	return out
}

// HeapSize returns the region's current high address: the total footprint of
// the heap including sentinels and metadata. Useful for utilization metrics.
func (h *Heap) HeapSize() int32 {
	return h.r.Size()
}
