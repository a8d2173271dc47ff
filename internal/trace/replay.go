package trace

import (
	"fmt"

	"github.com/dkellner/heapkit/heap/alloc"
)

// Result summarizes a replayed trace.
type Result struct {
	Ops         int         // operations executed
	PeakPayload int64       // high-water mark of requested payload bytes
	HeapSize    int32       // final heap footprint including metadata
	Utilization float64     // PeakPayload / HeapSize, the driver's space score
	Stats       alloc.Stats // allocator counters after the run
}

// Run replays ops against h, verifying payload integrity with per-id fill
// patterns. When checkEvery > 0 a full consistency check runs every
// checkEvery operations and after the last one. Any allocator error, id
// misuse or payload corruption aborts the replay.
func Run(h *alloc.Heap, ops []Op, checkEvery int) (*Result, error) {
	type slot struct {
		ref  alloc.Ref
		size int32
		seed byte
	}
	live := map[int]slot{}

	res := &Result{}
	var payload int64

	for i, op := range ops {
		switch op.Kind {
		case KindAlloc, KindCalloc:
			if _, ok := live[op.ID]; ok {
				return nil, fmt.Errorf("trace: op %d: id %d already live", i, op.ID)
			}
			var (
				ref  alloc.Ref
				p    []byte
				err  error
				size = op.Size
			)
			if op.Kind == KindCalloc {
				ref, p, err = h.Calloc(op.Count, op.Size)
				size = op.Count * op.Size
			} else {
				ref, p, err = h.Alloc(op.Size)
			}
			if err != nil {
				return nil, fmt.Errorf("trace: op %d: id %d: %w", i, op.ID, err)
			}
			if op.Kind == KindCalloc {
				for j := int32(0); j < size; j++ {
					if p[j] != 0 {
						return nil, fmt.Errorf("trace: op %d: id %d: byte %d not zeroed", i, op.ID, j)
					}
				}
			}
			seed := byte(op.ID)
			fill(p[:size], seed)
			live[op.ID] = slot{ref: ref, size: size, seed: seed}
			payload += int64(size)

		case KindFree:
			s, ok := live[op.ID]
			if !ok {
				return nil, fmt.Errorf("trace: op %d: free of unknown id %d", i, op.ID)
			}
			if err := verify(h, s.ref, s.seed, s.size); err != nil {
				return nil, fmt.Errorf("trace: op %d: id %d: %w", i, op.ID, err)
			}
			if err := h.Free(s.ref); err != nil {
				return nil, fmt.Errorf("trace: op %d: id %d: %w", i, op.ID, err)
			}
			delete(live, op.ID)
			payload -= int64(s.size)

		case KindRealloc:
			s, ok := live[op.ID]
			if !ok {
				return nil, fmt.Errorf("trace: op %d: realloc of unknown id %d", i, op.ID)
			}
			ref, p, err := h.Realloc(s.ref, op.Size)
			if err != nil {
				return nil, fmt.Errorf("trace: op %d: id %d: %w", i, op.ID, err)
			}
			keep := s.size
			if op.Size < keep {
				keep = op.Size
			}
			if err := verifyBytes(p, s.seed, keep); err != nil {
				return nil, fmt.Errorf("trace: op %d: id %d: %w", i, op.ID, err)
			}
			payload += int64(op.Size) - int64(s.size)
			if op.Size == 0 {
				delete(live, op.ID)
				break
			}
			seed := byte(op.ID) ^ 0x5A
			fill(p[:op.Size], seed)
			live[op.ID] = slot{ref: ref, size: op.Size, seed: seed}

		default:
			return nil, fmt.Errorf("trace: op %d: unknown kind %q", i, op.Kind)
		}

		if payload > res.PeakPayload {
			res.PeakPayload = payload
		}
		res.Ops++

		if checkEvery > 0 && (res.Ops%checkEvery == 0 || i == len(ops)-1) {
			if !h.CheckHeap(fmt.Sprintf("replay op %d", i)) {
				return nil, fmt.Errorf("trace: op %d: heap inconsistent", i)
			}
		}
	}

	res.HeapSize = h.HeapSize()
	if res.HeapSize > 0 {
		res.Utilization = float64(res.PeakPayload) / float64(res.HeapSize)
	}
	res.Stats = h.Stats()
	return res, nil
}

func fill(p []byte, seed byte) {
	for i := range p {
		p[i] = seed + byte(i)
	}
}

func verify(h *alloc.Heap, ref alloc.Ref, seed byte, n int32) error {
	if ref == alloc.NilRef {
		return nil
	}
	p, err := h.Payload(ref)
	if err != nil {
		return err
	}
	return verifyBytes(p, seed, n)
}

func verifyBytes(p []byte, seed byte, n int32) error {
	for i := int32(0); i < n; i++ {
		if p[i] != seed+byte(i) {
			return fmt.Errorf("payload corrupted at byte %d", i)
		}
	}
	return nil
}
