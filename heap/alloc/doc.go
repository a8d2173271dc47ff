// Package alloc implements a general-purpose dynamic memory allocator over a
// single growable byte region, using segregated free lists with boundary-tag
// coalescing.
//
// # Overview
//
// The allocator manages variable-sized blocks laid out contiguously inside a
// heap.Region. Every block carries a header word and a footer word (boundary
// tags) encoding its size and allocation state, which makes both forward and
// backward traversal possible and lets adjacent free blocks be merged in O(1).
// Free blocks are segregated into 16 circular doubly-linked lists by size
// class, so a fit search only touches blocks whose class could satisfy the
// request.
//
// # Operations
//
//   - Alloc(size): allocate a block, first-fit across size classes, growing
//     the region when no free block fits
//   - Free(ref): release a block, coalescing it with free neighbors
//   - Realloc(ref, size): resize in place when shrinking, move-and-copy when
//     growing
//   - Calloc(n, size): overflow-checked, zero-filled allocation
//   - CheckHeap(context): full heap and free-list consistency audit
//
// # Block layout
//
// Sizes are multiples of 16 and at least 32 bytes. The payload begins 8 bytes
// into the block (header word plus a pad word), and block starts sit at
// offsets congruent to 8 mod 16, so every payload the allocator hands out is
// 16-byte aligned. A free block stores its free-list predecessor and
// successor as uint32 arena offsets in the first 8 payload bytes; an
// allocated block uses those bytes as ordinary payload. The two views are
// mutually exclusive over the same memory.
//
//	allocated:  | header | pad | payload ........... | footer |
//	free:       | header | pad | pred | succ | ..... | footer |
//
// # Size classes
//
// The 16 free lists cover exponentially growing ranges with inclusive upper
// bounds:
//
//	class 0:  (0,    32]
//	class 1:  (32,   64]
//	class 2:  (64,  128]
//	...
//	class 14: (2^18, 2^19]
//	class 15: (2^19,  +inf)
//
// # Sentinels
//
// The bottom of the arena holds the 16 bucket sentinel nodes (degenerate,
// permanently allocated blocks acting purely as list anchors), followed by an
// allocated prologue block and a zero-size allocated epilogue header. The
// sentinels mean list insert/remove never special-case an empty list; the
// prologue and epilogue mean coalescing never walks past the heap bounds. The
// epilogue is relocated on every extension.
//
// # Stability of payload views
//
// The backing region reserves its maximum size up front, so the []byte views
// returned by Alloc, Realloc, Calloc and Payload stay valid until the block
// is freed, even across later heap growth.
//
// # Thread safety
//
// A Heap is not thread-safe. Concurrent calls on one instance are undefined
// behavior; serialize externally or use one Heap per goroutine.
package alloc
