package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFuzzRandomOpsGuardInvariants drives the allocator with a seeded random
// mix of alloc/free/realloc/calloc and validates every heap invariant after
// each step, mirroring live payloads against a shadow model.
func TestFuzzRandomOpsGuardInvariants(t *testing.T) {
	h := newTestHeap(t, 8<<20)

	rng := rand.New(rand.NewSource(42)) // fixed seed for reproducibility
	type liveBlock struct {
		ref  Ref
		seed byte
		size int
	}
	var live []liveBlock

	for step := 0; step < 1500; step++ {
		switch op := rng.Intn(10); {
		case op < 4: // alloc
			size := 1 + rng.Intn(2048)
			ref, p, err := h.Alloc(int32(size))
			require.NoError(t, err, "step %d: alloc %d", step, size)
			seed := byte(rng.Intn(256))
			fillPattern(p[:size], seed)
			live = append(live, liveBlock{ref: ref, seed: seed, size: size})

		case op < 7: // free
			if len(live) == 0 {
				continue
			}
			i := rng.Intn(len(live))
			require.NoError(t, h.Free(live[i].ref), "step %d: free", step)
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]

		case op < 9: // realloc
			if len(live) == 0 {
				continue
			}
			i := rng.Intn(len(live))
			newSize := 1 + rng.Intn(3072)
			ref, p, err := h.Realloc(live[i].ref, int32(newSize))
			require.NoError(t, err, "step %d: realloc to %d", step, newSize)
			keep := min(live[i].size, newSize)
			requirePattern(t, p, live[i].seed, keep)
			// Rewrite the whole block so size tracking stays exact.
			seed := byte(rng.Intn(256))
			fillPattern(p[:newSize], seed)
			live[i] = liveBlock{ref: ref, seed: seed, size: newSize}

		default: // calloc
			n := 1 + rng.Intn(64)
			size := 1 + rng.Intn(64)
			ref, p, err := h.Calloc(int32(n), int32(size))
			require.NoError(t, err, "step %d: calloc %dx%d", step, n, size)
			for i := 0; i < n*size; i++ {
				require.Zero(t, p[i], "step %d: calloc byte %d not zero", step, i)
			}
			seed := byte(rng.Intn(256))
			fillPattern(p[:n*size], seed)
			live = append(live, liveBlock{ref: ref, seed: seed, size: n * size})
		}

		requireConsistent(t, h, "fuzz step")

		// Spot-check a few live payloads against the shadow model.
		for k := 0; k < min(len(live), 3); k++ {
			lb := live[rng.Intn(len(live))]
			p, err := h.Payload(lb.ref)
			require.NoError(t, err)
			requirePattern(t, p, lb.seed, lb.size)
		}
	}

	// Tear everything down; the heap must collapse to a single free block.
	for _, lb := range live {
		require.NoError(t, h.Free(lb.ref))
	}
	require.Len(t, h.Blocks(), 1)
	require.False(t, h.Blocks()[0].Allocated)
	requireConsistent(t, h, "after teardown")

	stats := h.Stats()
	require.Equal(t, int64(0), stats.InUse)
	require.Equal(t, stats.BytesAllocated, stats.BytesFreed)
	t.Logf("fuzz complete:\n%s", stats)
}
