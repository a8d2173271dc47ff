package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU32RoundTrip(t *testing.T) {
	b := make([]byte, 16)

	PutU32(b, 4, 0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), U32(b, 4))

	// Little-endian byte order.
	require.Equal(t, byte(0xEF), b[4])
	require.Equal(t, byte(0xDE), b[7])
}

func TestU32OutOfBounds(t *testing.T) {
	b := make([]byte, 8)

	require.Equal(t, uint32(0), U32(b, 6), "straddling read returns zero")
	require.Equal(t, uint32(0), U32(b, -1))
	require.Equal(t, uint32(0), U32(b, 8))

	// Out-of-bounds writes must not panic or corrupt.
	PutU32(b, 6, 0xFFFFFFFF)
	PutU32(b, -4, 0xFFFFFFFF)
	require.Equal(t, byte(0), b[6])
	require.Equal(t, byte(0), b[7])
}

func TestMulOverflowSafe(t *testing.T) {
	tests := []struct {
		a, b int
		want int
		ok   bool
	}{
		{0, math.MaxInt, 0, true},
		{10, 4, 40, true},
		{math.MaxInt, 2, 0, false},
		{math.MaxInt/2 + 1, 2, 0, false},
		{-1, math.MinInt, 0, false},
		{1024, 1024, 1 << 20, true},
	}
	for _, tt := range tests {
		got, ok := MulOverflowSafe(tt.a, tt.b)
		require.Equal(t, tt.ok, ok, "MulOverflowSafe(%d, %d)", tt.a, tt.b)
		if ok {
			require.Equal(t, tt.want, got)
		}
	}
}

func TestAddOverflowSafe(t *testing.T) {
	_, ok := AddOverflowSafe(math.MaxInt, 1)
	require.False(t, ok)

	got, ok := AddOverflowSafe(40, 2)
	require.True(t, ok)
	require.Equal(t, 42, got)
}

func TestSliceAndHas(t *testing.T) {
	b := make([]byte, 32)

	s, ok := Slice(b, 8, 16)
	require.True(t, ok)
	require.Len(t, s, 16)

	_, ok = Slice(b, 24, 16)
	require.False(t, ok)

	require.True(t, Has(b, 0, 32))
	require.False(t, Has(b, 1, 32))
	require.False(t, Has(b, -1, 4))
}
