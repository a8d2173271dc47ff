package alloc

import (
	"fmt"

	"github.com/dkellner/heapkit/internal/buf"
)

// Consistency checker. Walks every block from the prologue to the epilogue
// and audits every free list. Intended around mutating operations in tests
// and debugging sessions (Config.Verify), never on production hot paths.

// CheckHeap verifies the whole heap and reports true when it is consistent.
// Every violation is written to the configured diagnostics writer with the
// offending offsets and encoded words; context tags the report so a caller
// wrapping mutations can tell enter from exit.
func (h *Heap) CheckHeap(context string) bool {
	ok := true
	fail := func(format string, args ...any) {
		fmt.Fprintf(h.cfg.Diag, "heapcheck[%s]: %s\n", context, fmt.Sprintf(format, args...))
		ok = false
	}

	data := h.r.Bytes()
	high := h.r.Size()
	epi := h.epilogueOff()

	// Prologue guards the low end.
	if headerOf(data, h.prologue) != pack(prologueSize, true) ||
		footerOf(data, h.prologue) != pack(prologueSize, true) {
		fail("prologue at %d corrupt: header=%#x footer=%#x",
			h.prologue, headerOf(data, h.prologue), footerOf(data, h.prologue))
		return false
	}

	// Block walk: contiguous, aligned, tag-consistent, no two adjacent
	// free blocks, terminating exactly at the epilogue.
	freeBlocks := 0
	prevFree := false
	b := h.firstBlock()
	for b != epi {
		if b < h.firstBlock() || b > epi || !buf.Has(data, int(b), int(wordSize)) {
			fail("walk escaped heap bounds at %d (epilogue %d)", b, epi)
			return false
		}
		size := sizeOf(data, b)
		if size < minBlockSize || size%alignSize != 0 {
			fail("block %d has illegal size %d", b, size)
			return false
		}
		if b+size > epi {
			fail("block %d size %d overruns epilogue %d", b, size, epi)
			return false
		}
		if hdr, ftr := headerOf(data, b), footerOf(data, b); hdr != ftr {
			fail("block %d header/footer mismatch: header=%#x footer=%#x", b, hdr, ftr)
		}
		if payloadOf(b)%alignSize != 0 {
			fail("block %d payload %d not %d-byte aligned", b, payloadOf(b), alignSize)
		}
		free := !isAllocated(data, b)
		if free {
			freeBlocks++
			if prevFree {
				fail("adjacent free blocks: %d follows another free block", b)
			}
		}
		prevFree = free
		b = nextBlock(data, b)
	}

	// Epilogue guards the high end.
	if headerOf(data, epi) != pack(0, true) {
		fail("epilogue at %d corrupt: header=%#x", epi, headerOf(data, epi))
	}

	// Free-list audit: every node free, in bounds, in the right bucket,
	// with mutually consistent links; every free block on exactly one list.
	listed := 0
	for idx := 0; idx < numClasses; idx++ {
		head := h.sentinel(idx)
		steps := 0
		for n := succOf(data, head); n != head; n = succOf(data, n) {
			if steps++; steps > freeBlocks+1 {
				fail("class %d list does not cycle back to its sentinel", idx)
				break
			}
			if n < h.firstBlock() || n >= epi {
				fail("class %d list node %d outside heap", idx, n)
				break
			}
			if isAllocated(data, n) {
				fail("class %d list node %d is marked allocated", idx, n)
			}
			if got := bucketFor(sizeOf(data, n)); got != idx {
				fail("block %d size %d on class %d, belongs in %d", n, sizeOf(data, n), idx, got)
			}
			if succOf(data, predOf(data, n)) != n || predOf(data, succOf(data, n)) != n {
				fail("block %d has inconsistent list links", n)
			}
			listed++
		}
	}
	if listed != freeBlocks {
		fail("free-list population %d != free blocks on heap %d", listed, freeBlocks)
	}

	if high != epi+epilogueSize {
		fail("epilogue %d not at region high address %d", epi, high)
	}

	return ok
}
