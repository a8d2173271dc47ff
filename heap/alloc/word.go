package alloc

import "github.com/dkellner/heapkit/internal/buf"

// Block metadata codec. All boundary-tag arithmetic lives in this file; no
// other file computes raw block offsets.
//
// A tag word packs the block size with the allocation flag in bit 0. Sizes
// are multiples of 16, so the low bits are always free for flags.

const (
	// wordSize is the size of one boundary-tag word.
	wordSize = int32(4)

	// alignSize is the block size granularity and the payload alignment.
	alignSize = int32(16)

	// headSize is the distance from a block's start to its payload: the
	// header word plus a pad word keeping payloads 16-byte aligned.
	headSize = int32(8)

	// overhead is the metadata cost per block: header area plus footer.
	overhead = headSize + wordSize

	// minBlockSize is the smallest legal block: header area, the two
	// free-list link words, and the footer, rounded to alignSize.
	minBlockSize = int32(32)

	// maxBlockSize bounds a single block so packed sizes never collide
	// with the flag bits or the int32 offset space.
	maxBlockSize = int32(1 << 30)

	allocBit = uint32(0x1)
	sizeMask = ^uint32(0x7)
)

// pack encodes (size, allocated) into a tag word.
func pack(size int32, allocated bool) uint32 {
	w := uint32(size)
	if allocated {
		w |= allocBit
	}
	return w
}

// wordSizeOf extracts the size from a tag word, clearing the flag bits.
func wordSizeOf(w uint32) int32 {
	return int32(w & sizeMask)
}

// wordAllocOf extracts the allocation flag from a tag word.
func wordAllocOf(w uint32) bool {
	return w&allocBit != 0
}

// headerOf reads a block's header word.
func headerOf(data []byte, b int32) uint32 {
	return buf.U32(data, int(b))
}

// footerOf reads a block's footer word, located in the block's last word.
func footerOf(data []byte, b int32) uint32 {
	return buf.U32(data, int(b+sizeOf(data, b)-wordSize))
}

// sizeOf returns the block's size as encoded in its header.
func sizeOf(data []byte, b int32) int32 {
	return wordSizeOf(headerOf(data, b))
}

// isAllocated returns the block's allocation state as encoded in its header.
func isAllocated(data []byte, b int32) bool {
	return wordAllocOf(headerOf(data, b))
}

// writeHeader encodes (size, allocated) into the block's header word.
func writeHeader(data []byte, b, size int32, allocated bool) {
	buf.PutU32(data, int(b), pack(size, allocated))
}

// writeFooter encodes (size, allocated) into the block's footer word. The
// footer position is derived from the given size, not the current header, so
// header and footer can be rewritten in either order.
func writeFooter(data []byte, b, size int32, allocated bool) {
	buf.PutU32(data, int(b+size-wordSize), pack(size, allocated))
}

// nextBlock returns the block immediately after b. Blocks are contiguous, so
// this is b plus its encoded size. Must not be called on the epilogue.
func nextBlock(data []byte, b int32) int32 {
	return b + sizeOf(data, b)
}

// prevBlock returns the block immediately before b, recovered from the
// previous block's footer word. Must never be called on the first real
// block; the prologue's permanently allocated footer stops coalescing there.
func prevBlock(data []byte, b int32) int32 {
	w := buf.U32(data, int(b-wordSize))
	return b - wordSizeOf(w)
}

// payloadOf converts a block offset to its payload reference.
func payloadOf(b int32) Ref {
	return b + headSize
}

// blockOf converts a payload reference back to its block offset.
func blockOf(ref Ref) int32 {
	return ref - headSize
}

// payloadSize returns the usable payload bytes of a block of the given size.
func payloadSize(size int32) int32 {
	return size - overhead
}

// roundUp rounds size up to the next multiple of n (n a power of two).
func roundUp(size, n int64) int64 {
	return (size + n - 1) &^ (n - 1)
}

// adjustSize converts a requested payload size to a legal block size:
// payload plus overhead, rounded to alignSize, and at least minBlockSize.
// ok is false when the result would exceed maxBlockSize.
func adjustSize(size int32) (int32, bool) {
	a := roundUp(int64(size)+int64(overhead), int64(alignSize))
	if a < int64(minBlockSize) {
		a = int64(minBlockSize)
	}
	if a > int64(maxBlockSize) {
		return 0, false
	}
	return int32(a), true
}
