package alloc

import "github.com/dkellner/heapkit/internal/buf"

// Free-list manager: one circular doubly-linked list per size class, with
// the links stored as uint32 arena offsets inside the freed payload bytes.
// Each list is anchored by a sentinel node (a degenerate, permanently
// allocated block at the bottom of the arena), so insert and remove never
// special-case an empty list.
//
// Precondition for insertFree and removeFree: the block is marked free.
// This is a caller invariant, not checked on the hot path; CheckHeap audits
// it after the fact.

const (
	// sentinelSize is the arena footprint of one bucket sentinel.
	sentinelSize = minBlockSize

	// seglistSize is the footprint of all bucket sentinels.
	seglistSize = numClasses * sentinelSize

	// seglistPad keeps the prologue after the sentinels at an offset
	// congruent to 8 mod 16, so real block payloads land 16-aligned.
	seglistPad = int32(8)
)

// sentinel returns the arena offset of size class idx's list anchor.
func (h *Heap) sentinel(idx int) int32 {
	return h.base + int32(idx)*sentinelSize
}

// predOf reads a free block's predecessor link.
func predOf(data []byte, b int32) int32 {
	return int32(buf.U32(data, int(b+headSize)))
}

// succOf reads a free block's successor link.
func succOf(data []byte, b int32) int32 {
	return int32(buf.U32(data, int(b+headSize+wordSize)))
}

func setPred(data []byte, b, pred int32) {
	buf.PutU32(data, int(b+headSize), uint32(pred))
}

func setSucc(data []byte, b, succ int32) {
	buf.PutU32(data, int(b+headSize+wordSize), uint32(succ))
}

// insertFree pushes a free block onto the head of its size class's list
// (LIFO). O(1); no size ordering is kept within a bucket.
func (h *Heap) insertFree(b int32) {
	data := h.r.Bytes()
	head := h.sentinel(bucketFor(sizeOf(data, b)))
	next := succOf(data, head)

	setPred(data, b, head)
	setSucc(data, b, next)
	setSucc(data, head, b)
	setPred(data, next, b)
}

// removeFree unlinks a free block from its list in O(1) using only its own
// links; no traversal.
func (h *Heap) removeFree(b int32) {
	data := h.r.Bytes()
	pred := predOf(data, b)
	succ := succOf(data, b)
	setSucc(data, pred, succ)
	setPred(data, succ, pred)
}

// initSeglist formats the bucket sentinels at the bottom of the arena:
// allocated 32-byte blocks whose links point at themselves.
func (h *Heap) initSeglist() {
	data := h.r.Bytes()
	for i := 0; i < numClasses; i++ {
		node := h.sentinel(i)
		writeHeader(data, node, sentinelSize, true)
		writeFooter(data, node, sentinelSize, true)
		setPred(data, node, node)
		setSucc(data, node, node)
	}
}
