package alloc

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Stats holds allocator counters for instrumentation and tests.
type Stats struct {
	AllocCalls   int // Alloc() calls, including zero-size no-ops
	FreeCalls    int // Free() calls, including nil no-ops
	ReallocCalls int // Realloc() calls
	CallocCalls  int // Calloc() calls

	FastPath int // allocations satisfied without growing the region
	SlowPath int // allocations that required an extension

	ExtendCalls int   // heap extensions performed
	ExtendBytes int64 // total bytes obtained from the region

	Splits           int // block splits in place and shrink-in-place
	CoalesceNone     int // merges where both neighbors were allocated
	CoalesceForward  int // merges with the next block only
	CoalesceBackward int // merges with the previous block only
	CoalesceBoth     int // three-way merges

	BytesAllocated int64 // cumulative block bytes handed out
	BytesFreed     int64 // cumulative block bytes released

	InUse     int64 // block bytes currently allocated
	PeakInUse int64 // high-water mark of InUse
}

// Stats returns a snapshot of the allocator's counters.
func (h *Heap) Stats() Stats {
	return h.stats
}

// String renders the counters as a short human-readable report.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ops: alloc=%d free=%d realloc=%d calloc=%d\n",
		s.AllocCalls, s.FreeCalls, s.ReallocCalls, s.CallocCalls)
	fmt.Fprintf(&b, "paths: fast=%d slow=%d extends=%d (%s)\n",
		s.FastPath, s.SlowPath, s.ExtendCalls, humanize.IBytes(uint64(s.ExtendBytes)))
	fmt.Fprintf(&b, "blocks: splits=%d coalesce none/fwd/back/both=%d/%d/%d/%d\n",
		s.Splits, s.CoalesceNone, s.CoalesceForward, s.CoalesceBackward, s.CoalesceBoth)
	fmt.Fprintf(&b, "bytes: allocated=%s freed=%s in-use=%s peak=%s",
		humanize.IBytes(uint64(s.BytesAllocated)), humanize.IBytes(uint64(s.BytesFreed)),
		humanize.IBytes(uint64(s.InUse)), humanize.IBytes(uint64(s.PeakInUse)))
	return b.String()
}
