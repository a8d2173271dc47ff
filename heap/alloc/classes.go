package alloc

import "math/bits"

// numClasses is the number of segregated free lists. Class 0 absorbs
// everything up to minBlockSize; class numClasses-1 absorbs everything
// above 2^19. The count is a tuned policy constant: any bucket layout works
// as long as bucketFor stays monotonic and covers every size.
const numClasses = 16

// SizeClass describes one segregated free list: the inclusive block-size
// range it serves. Max is 0 for the last, unbounded class.
type SizeClass struct {
	Index int
	Min   int32
	Max   int32
}

// SizeClasses reports the allocator's size-class layout, smallest first.
func SizeClasses() []SizeClass {
	out := make([]SizeClass, numClasses)
	for i := range out {
		out[i] = SizeClass{Index: i, Min: 1<<(i+4) + 1, Max: 1 << (i + 5)}
	}
	out[0].Min = minBlockSize
	out[numClasses-1].Max = 0
	return out
}

// bucketFor maps a block size to its size-class index in [0, numClasses).
//
// Classes have inclusive upper bounds: a size exactly on a power-of-two
// boundary belongs to the lower class, so class k covers (2^(k+4), 2^(k+5)].
// The mapping is pure and monotonic: a larger size never yields a smaller
// index.
func bucketFor(size int32) int {
	// 1-based index of the highest set bit.
	hi := 32 - bits.LeadingZeros32(uint32(size))

	// Inclusive upper bounds: 2^(hi-1) exactly drops to the class below.
	if size == 1<<(hi-1) {
		hi--
	}

	idx := hi - 5
	if idx < 0 {
		return 0
	}
	if idx >= numClasses {
		return numClasses - 1
	}
	return idx
}
