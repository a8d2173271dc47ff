package alloc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkellner/heapkit/heap"
)

// newTestHeap creates a heap over a real region with the given reservation.
func newTestHeap(t testing.TB, maxBytes int64) *Heap {
	t.Helper()
	return newTestHeapCfg(t, maxBytes, nil)
}

// newTestHeapCfg creates a heap with a custom config.
func newTestHeapCfg(t testing.TB, maxBytes int64, cfg *Config) *Heap {
	t.Helper()

	r, err := heap.NewRegion(maxBytes)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	h, err := New(r, cfg)
	require.NoError(t, err)
	return h
}

// requireConsistent runs a full heap check and fails the test with the
// checker's diagnostics on any violation.
func requireConsistent(t testing.TB, h *Heap, context string) {
	t.Helper()

	var diag bytes.Buffer
	old := h.cfg.Diag
	h.cfg.Diag = &diag
	ok := h.CheckHeap(context)
	h.cfg.Diag = old

	require.True(t, ok, "heap inconsistent at %s:\n%s", context, diag.String())
}

// fillPattern writes a deterministic byte pattern derived from seed.
func fillPattern(p []byte, seed byte) {
	for i := range p {
		p[i] = seed + byte(i)
	}
}

// requirePattern verifies the first n bytes still carry fillPattern's output.
func requirePattern(t testing.TB, p []byte, seed byte, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.Equal(t, seed+byte(i), p[i], "payload byte %d corrupted", i)
	}
}
