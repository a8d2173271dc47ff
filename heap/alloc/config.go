package alloc

import "io"

// Config tunes a Heap. The zero value is usable; DefaultConfig spells out
// the defaults.
type Config struct {
	// ChunkSize is the minimum heap extension, amortizing region growth
	// across many small requests. Rounded up to the block alignment.
	// 0 selects DefaultChunkSize.
	ChunkSize int32

	// Verify runs a full CheckHeap before and after every mutating
	// operation. Meant for tests and debugging; far too slow for
	// production paths.
	Verify bool

	// Diag receives consistency-checker diagnostics. nil selects
	// os.Stderr.
	Diag io.Writer
}

// DefaultChunkSize is the default heap extension granularity.
const DefaultChunkSize = int32(1 << 12)

// DefaultConfig is the configuration used when New receives nil.
var DefaultConfig = Config{
	ChunkSize: DefaultChunkSize,
}
