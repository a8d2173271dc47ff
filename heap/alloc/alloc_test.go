package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkellner/heapkit/heap"
)

func TestAllocZeroIsNull(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	before := h.Stats()

	ref, p, err := h.Alloc(0)
	require.NoError(t, err)
	require.Equal(t, NilRef, ref)
	require.Nil(t, p)

	after := h.Stats()
	require.Equal(t, before.ExtendCalls, after.ExtendCalls)
	require.Equal(t, before.InUse, after.InUse, "zero-size request must not mutate the heap")
	requireConsistent(t, h, "after Alloc(0)")
}

func TestAllocNegativeRejected(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	_, _, err := h.Alloc(-1)
	require.ErrorIs(t, err, ErrBadSize)
}

func TestAllocOneByte(t *testing.T) {
	h := newTestHeap(t, 1<<20)

	ref, p, err := h.Alloc(1)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, ref)
	require.Zero(t, ref%16, "payload must be 16-byte aligned")

	// A one-byte request still occupies a minimum-size block.
	blocks := h.Blocks()
	require.Equal(t, minBlockSize, blocks[0].Size)
	require.True(t, blocks[0].Allocated)
	require.GreaterOrEqual(t, len(p), 1)
	requireConsistent(t, h, "after Alloc(1)")
}

func TestAllocReusesFreedBlockFirstFit(t *testing.T) {
	h := newTestHeap(t, 1<<20)

	a, _, err := h.Alloc(100)
	require.NoError(t, err)
	_, _, err = h.Alloc(100)
	require.NoError(t, err)

	require.NoError(t, h.Free(a))
	extends := h.Stats().ExtendCalls

	// A 50-byte request fits A's 112-byte block: the fit search reaches
	// A's size class and first-fit returns A itself.
	c, _, err := h.Alloc(50)
	require.NoError(t, err)
	require.Equal(t, a, c, "freed block must be reused at the same address")
	require.Equal(t, extends, h.Stats().ExtendCalls, "reuse must not grow the heap")
	requireConsistent(t, h, "after reuse")
}

func TestAllocCoalescedNeighborsServeLargerRequest(t *testing.T) {
	h := newTestHeap(t, 1<<20)

	a, _, err := h.Alloc(64)
	require.NoError(t, err)
	b, _, err := h.Alloc(64)
	require.NoError(t, err)

	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(b))
	extends := h.Stats().ExtendCalls

	// 120 bytes does not fit either 80-byte block alone; it must be
	// satisfied by their coalesced span without growing the heap.
	_, _, err = h.Alloc(120)
	require.NoError(t, err)
	require.Equal(t, extends, h.Stats().ExtendCalls, "coalesced blocks must satisfy the request")
	requireConsistent(t, h, "after coalesced reuse")
}

func TestAllocPayloadsDoNotOverlap(t *testing.T) {
	h := newTestHeap(t, 1<<20)

	a, pa, err := h.Alloc(100)
	require.NoError(t, err)
	_, pb, err := h.Alloc(100)
	require.NoError(t, err)

	fillPattern(pa, 0x11)
	fillPattern(pb, 0x77)

	requirePattern(t, pa, 0x11, len(pa))
	requirePattern(t, pb, 0x77, len(pb))

	got, err := h.Payload(a)
	require.NoError(t, err)
	requirePattern(t, got, 0x11, len(got))
}

func TestAllocGrowsPastInitialChunk(t *testing.T) {
	h := newTestHeap(t, 1<<20)

	// Exhaust the bootstrap chunk, forcing extensions.
	var refs []Ref
	for i := 0; i < 20; i++ {
		ref, p, err := h.Alloc(1024)
		require.NoError(t, err)
		fillPattern(p, byte(len(refs)))
		refs = append(refs, ref)
	}
	require.Greater(t, h.Stats().ExtendCalls, 1)
	requireConsistent(t, h, "after growth")

	// Every payload survived the extensions.
	for i, ref := range refs {
		p, err := h.Payload(ref)
		require.NoError(t, err)
		requirePattern(t, p, byte(i), 1024)
	}
}

func TestAllocLargeRequestExtendsBeyondChunk(t *testing.T) {
	h := newTestHeap(t, 1<<22)

	ref, p, err := h.Alloc(100_000)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, ref)
	require.GreaterOrEqual(t, len(p), 100_000)
	requireConsistent(t, h, "after large alloc")
}

func TestAllocExhaustionLeavesHeapIntact(t *testing.T) {
	// 8KB reservation: bootstrap plus one chunk fit, little else.
	h := newTestHeap(t, 8192)

	a, pa, err := h.Alloc(512)
	require.NoError(t, err)
	fillPattern(pa, 0x5A)

	_, _, err = h.Alloc(1 << 20)
	require.ErrorIs(t, err, heap.ErrRegionFull)

	// Failure left every prior allocation and the heap structure intact.
	requirePattern(t, pa, 0x5A, 512)
	requireConsistent(t, h, "after refused extension")

	require.NoError(t, h.Free(a))
	requireConsistent(t, h, "after free following refusal")
}

func TestAllocOversizedRequestFails(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	_, _, err := h.Alloc(maxBlockSize)
	require.ErrorIs(t, err, ErrSizeOverflow)
}

func TestFreeNilIsNoop(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	require.NoError(t, h.Free(NilRef))
	requireConsistent(t, h, "after Free(NilRef)")
}

func TestFreeRejectsBadRefs(t *testing.T) {
	h := newTestHeap(t, 1<<20)

	require.ErrorIs(t, h.Free(7), ErrBadRef, "misaligned reference")
	require.ErrorIs(t, h.Free(1<<28), ErrBadRef, "reference beyond the heap")

	ref, _, err := h.Alloc(64)
	require.NoError(t, err)
	require.NoError(t, h.Free(ref))
	require.ErrorIs(t, h.Free(ref), ErrNotAllocated, "double free")
}

func TestFreeReturnsBlockToMatchingClass(t *testing.T) {
	h := newTestHeap(t, 1<<20)

	ref, _, err := h.Alloc(100) // 112-byte block, class 2
	require.NoError(t, err)
	_, _, err = h.Alloc(100) // keep the neighbor allocated
	require.NoError(t, err)
	require.NoError(t, h.Free(ref))

	// White box: the freed block sits on the list bucketFor says it should.
	data := h.r.Bytes()
	b := blockOf(ref)
	idx := bucketFor(sizeOf(data, b))
	found := false
	head := h.sentinel(idx)
	for n := succOf(data, head); n != head; n = succOf(data, n) {
		if n == b {
			found = true
			break
		}
	}
	require.True(t, found, "freed block missing from class %d", idx)
}

func TestStatsTrackInUse(t *testing.T) {
	h := newTestHeap(t, 1<<20)

	a, _, err := h.Alloc(100)
	require.NoError(t, err)
	require.Equal(t, int64(112), h.Stats().InUse)

	b, _, err := h.Alloc(200)
	require.NoError(t, err)
	require.Equal(t, int64(112+224), h.Stats().InUse)
	require.Equal(t, int64(112+224), h.Stats().PeakInUse)

	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(b))
	require.Equal(t, int64(0), h.Stats().InUse)
	require.Equal(t, int64(112+224), h.Stats().PeakInUse)
}

func TestVerifyModeRunsChecks(t *testing.T) {
	h := newTestHeapCfg(t, 1<<20, &Config{Verify: true})

	ref, _, err := h.Alloc(64)
	require.NoError(t, err)
	require.NoError(t, h.Free(ref))
}

func TestNewRejectsNilRegion(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
}

// misalignedRegion simulates a region whose break was already advanced by
// someone else, and counts mutation attempts.
type misalignedRegion struct {
	brk     int32
	extends int
}

func (m *misalignedRegion) Bytes() []byte { return make([]byte, m.brk) }
func (m *misalignedRegion) Size() int32   { return m.brk }
func (m *misalignedRegion) Extend(n int32) (int32, error) {
	m.extends++
	old := m.brk
	m.brk += n
	return old, nil
}

func TestNewRejectsMisalignedBreakWithoutExtending(t *testing.T) {
	r := &misalignedRegion{brk: 24}

	_, err := New(r, nil)
	require.ErrorIs(t, err, ErrBadRegion)
	require.Zero(t, r.extends, "rejected bootstrap must not grow the region")
	require.Equal(t, int32(24), r.Size())
}

func TestNewFailsWhenRegionTooSmall(t *testing.T) {
	r, err := heap.NewRegion(4096)
	require.NoError(t, err)
	defer r.Close()

	// Bootstrap fits but the initial chunk extension cannot.
	_, err = New(r, &Config{ChunkSize: 8192})
	require.ErrorIs(t, err, heap.ErrRegionFull)
}
