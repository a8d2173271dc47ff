package heap

import (
	"errors"
	"fmt"
)

const (
	// DefaultMax is the default reservation size for a region (64MB).
	DefaultMax = int32(64 << 20)

	// pageSize is the granularity the reservation is rounded to.
	pageSize = int32(4096)

	// maxReservation caps a single region at 1GB. Break offsets are int32
	// and block headers steal the low bits for flags, so the arena must
	// stay well below 2GB.
	maxReservation = int32(1 << 30)
)

var (
	// ErrRegionFull indicates the reservation is exhausted; the break is unchanged.
	ErrRegionFull = errors.New("heap: region reservation exhausted")

	// ErrBadExtend indicates a non-positive extension request.
	ErrBadExtend = errors.New("heap: extend size must be positive")

	// ErrClosed indicates use of a region after Close.
	ErrClosed = errors.New("heap: region closed")
)

// Region is a single contiguous, growable memory arena.
// The zero value is not usable; create one with NewRegion.
type Region struct {
	data []byte // full reservation, zero-initialized
	brk  int32  // current break: bytes handed out so far
	max  int32
}

// NewRegion reserves a region of up to maxBytes. Passing 0 selects
// DefaultMax. The reservation is rounded up to a whole page. maxBytes is
// int64 for the callers' sake; anything beyond maxReservation is rejected
// here, so offsets stay int32 internally.
func NewRegion(maxBytes int64) (*Region, error) {
	if maxBytes == 0 {
		maxBytes = int64(DefaultMax)
	}
	if maxBytes < 0 || maxBytes > int64(maxReservation) {
		return nil, fmt.Errorf("heap: reservation %d out of range (0, %d]", maxBytes, maxReservation)
	}
	max := int32(maxBytes)
	if rem := max % pageSize; rem != 0 {
		max += pageSize - rem
	}

	data, err := mapRegion(int(max))
	if err != nil {
		return nil, fmt.Errorf("heap: reserve %d bytes: %w", max, err)
	}
	return &Region{data: data, max: max}, nil
}

// Bytes returns the region's memory up to the current break.
// The slice aliases the arena; it is invalidated only by Close.
func (r *Region) Bytes() []byte {
	if r.data == nil {
		return nil
	}
	return r.data[:r.brk]
}

// Size returns the current break: the high address of the region.
func (r *Region) Size() int32 { return r.brk }

// Max returns the reservation limit.
func (r *Region) Max() int32 { return r.max }

// Extend grows the region by n bytes and returns the old break, i.e. the
// offset of the first newly available byte. On failure the break is
// left exactly where it was.
func (r *Region) Extend(n int32) (int32, error) {
	if r.data == nil {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, ErrBadExtend
	}
	if r.brk > r.max-n {
		return 0, ErrRegionFull
	}
	old := r.brk
	r.brk += n
	return old, nil
}

// Close releases the reservation. The region is unusable afterwards.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	err := unmapRegion(r.data)
	r.data = nil
	r.brk = 0
	return err
}
