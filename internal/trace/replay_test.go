package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkellner/heapkit/heap"
	"github.com/dkellner/heapkit/heap/alloc"
)

func newReplayHeap(t *testing.T) *alloc.Heap {
	t.Helper()
	r, err := heap.NewRegion(8 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	h, err := alloc.New(r, nil)
	require.NoError(t, err)
	return h
}

func TestRunMixedTrace(t *testing.T) {
	h := newReplayHeap(t)
	ops, err := Parse(strings.NewReader(`
a 0 100
a 1 100
f 0
a 2 50
r 1 300
c 3 16 8
f 1
f 2
f 3
`))
	require.NoError(t, err)

	res, err := Run(h, ops, 1)
	require.NoError(t, err)
	require.Equal(t, 9, res.Ops)
	require.Positive(t, res.PeakPayload)
	require.Positive(t, res.Utilization)
	require.Equal(t, int64(0), res.Stats.InUse, "trace frees everything")
}

func TestRunDetectsDoubleAlloc(t *testing.T) {
	h := newReplayHeap(t)
	ops := []Op{
		{Kind: KindAlloc, ID: 0, Size: 64},
		{Kind: KindAlloc, ID: 0, Size: 64},
	}
	_, err := Run(h, ops, 0)
	require.ErrorContains(t, err, "already live")
}

func TestRunDetectsUnknownFree(t *testing.T) {
	h := newReplayHeap(t)
	_, err := Run(h, []Op{{Kind: KindFree, ID: 9}}, 0)
	require.ErrorContains(t, err, "unknown id")
}

func TestRunComputesUtilization(t *testing.T) {
	h := newReplayHeap(t)
	ops := []Op{
		{Kind: KindAlloc, ID: 0, Size: 2048},
		{Kind: KindAlloc, ID: 1, Size: 2048},
		{Kind: KindFree, ID: 0},
		{Kind: KindFree, ID: 1},
	}
	res, err := Run(h, ops, 0)
	require.NoError(t, err)
	require.Equal(t, int64(4096), res.PeakPayload)
	require.Greater(t, res.Utilization, 0.3)
	require.LessOrEqual(t, res.Utilization, 1.0)
}

func TestRunReallocPreservesPrefix(t *testing.T) {
	h := newReplayHeap(t)
	ops, err := Parse(strings.NewReader(`
a 0 200
r 0 50
r 0 400
f 0
`))
	require.NoError(t, err)

	// Run itself verifies the surviving prefix after every realloc.
	_, err = Run(h, ops, 1)
	require.NoError(t, err)
}
